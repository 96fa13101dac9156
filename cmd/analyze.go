package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/attribution"
	"github.com/orglens/orglens/internal/audit"
	"github.com/orglens/orglens/internal/progress"
	"github.com/orglens/orglens/internal/roster"
	"github.com/orglens/orglens/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Attribute pull-request activity to the roster",
	Long: `Reads raw PR records from the workdir (raw-prs.json, plus the optional
raw-merged-prs.json supplement for non-standard workflows), matches them
against the resolved roster, verifies closed-only PRs where the workflow
hides true authorship, and writes attribution-metadata.json.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("owner", "", "repository owner (required)")
	analyzeCmd.Flags().String("repo", "", "repository name (required)")
	analyzeCmd.Flags().String("workdir", "", "working directory holding raw activity JSON (required)")
	analyzeCmd.Flags().String("roster", "", "roster JSON file (required)")
	analyzeCmd.Flags().String("cutoff", "", "cutoff date, ISO-8601 (required)")
	analyzeCmd.MarkFlagRequired("owner")
	analyzeCmd.MarkFlagRequired("repo")
	analyzeCmd.MarkFlagRequired("workdir")
	analyzeCmd.MarkFlagRequired("roster")
	analyzeCmd.MarkFlagRequired("cutoff")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	workdir, _ := cmd.Flags().GetString("workdir")
	rosterPath, _ := cmd.Flags().GetString("roster")
	cutoff, _ := cmd.Flags().GetString("cutoff")

	ros, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	// The primary record set is required; its absence fails the run.
	primary, err := attribution.LoadRecords(filepath.Join(workdir, "raw-prs.json"))
	if err != nil {
		return err
	}

	// The supplementary merged set exists only for non-standard workflows;
	// its presence selects the verification path.
	var supplementary []attribution.PullRequest
	wfType := workflow.Standard
	mergedPath := filepath.Join(workdir, "raw-merged-prs.json")
	if _, statErr := os.Stat(mergedPath); statErr == nil {
		supplementary, err = attribution.LoadRecords(mergedPath)
		if err != nil {
			return err
		}
		wfType = workflow.NonStandard
	}

	attributor := attribution.NewAttributor(newClient(cfg), logger, progress.NewReporter(),
		cfg.BotAccounts, cfg.BotSuffix, cfg.MaxConcurrency)
	result, err := attributor.Run(context.Background(), owner, repo, primary, supplementary, ros, cutoff, wfType)
	if err != nil {
		return err
	}
	report := result.Report

	fmt.Printf("Total PRs: %d (merged: %d, closed-only: %d)\n",
		report.TotalPRs, report.TotalMerged, report.TotalClosedOnly)
	fmt.Printf("Org total: %d (%.1f%%) - merged: %d, landed: %d\n",
		report.OrgTotal, report.OrgPct, report.OrgMergedCount, report.OrgLandedCount)
	for _, t := range result.Employees {
		var parts []string
		if t.Merged > 0 {
			parts = append(parts, fmt.Sprintf("%d merged", t.Merged))
		}
		if t.Landed > 0 {
			parts = append(parts, fmt.Sprintf("%d landed", t.Landed))
		}
		if t.Dropped > 0 {
			parts = append(parts, fmt.Sprintf("%d dropped", t.Dropped))
		}
		fmt.Printf("  %s (@%s, T%d): %d PRs (%s)\n",
			t.Name, t.Login, t.Tier, t.Credited(), strings.Join(parts, ", "))
	}
	fmt.Printf("Coverage: %.1f%%\n", ros.CoveragePct)

	metaPath := filepath.Join(workdir, "attribution-metadata.json")
	if err := report.Save(metaPath); err != nil {
		return err
	}
	logger.Info("attribution metadata written", zap.String("path", metaPath))

	logRun(logger, workdir, audit.Entry{
		Action:  audit.ActionAnalyze,
		Scope:   owner + "/" + repo,
		Summary: fmt.Sprintf("%d of %d PRs attributed (%.1f%%)", report.OrgTotal, report.TotalPRs, report.OrgPct),
		Detail: map[string]any{
			"workflow_type": report.WorkflowType,
			"total_prs":     report.TotalPRs,
			"org_merged":    report.OrgMergedCount,
			"org_landed":    report.OrgLandedCount,
			"org_pct":       report.OrgPct,
		},
	})
	return nil
}
