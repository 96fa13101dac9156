package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/audit"
	"github.com/orglens/orglens/internal/governance"
	"github.com/orglens/orglens/internal/roster"
)

var governanceCmd = &cobra.Command{
	Use:   "governance",
	Short: "Scan governance files and infer roster members' roles",
	Long: `Lists the repository tree for governance files (OWNERS, CODEOWNERS,
maintainer and committer lists), matches mentioned usernames against the
resolved roster, and infers each mention's role from the file type and the
surrounding text. Writes governance-matches.json to the workdir.`,
	RunE: runGovernance,
}

func init() {
	governanceCmd.Flags().String("owner", "", "repository owner (required)")
	governanceCmd.Flags().String("repo", "", "repository name (required)")
	governanceCmd.Flags().String("workdir", "", "working directory for raw files and matches (required)")
	governanceCmd.Flags().String("roster", "", "roster JSON file (required)")
	governanceCmd.Flags().String("pattern", governance.DefaultPattern, "file name pattern for governance files")
	governanceCmd.MarkFlagRequired("owner")
	governanceCmd.MarkFlagRequired("repo")
	governanceCmd.MarkFlagRequired("workdir")
	governanceCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(governanceCmd)
}

func runGovernance(cmd *cobra.Command, args []string) error {
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
	pattern, _ := cmd.Flags().GetString("pattern")

	if err := ensureWorkdir(workdir); err != nil {
		return err
	}
	ros, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	scanner := governance.NewScanner(newClient(cfg), logger, cfg.ApproverLookback, cfg.Include, cfg.Exclude)
	matches, err := scanner.Scan(context.Background(), owner, repo, workdir, pattern, ros)
	if err != nil {
		return err
	}

	for _, m := range matches {
		fmt.Printf("  MATCH: %s (@%s) T%d in %s (%s)\n", m.Name, m.Login, m.Tier, m.File, m.Role)
	}
	fmt.Printf("Total: %d roster matches in governance files\n", len(matches))

	outPath := filepath.Join(workdir, "governance-matches.json")
	if err := governance.SaveMatches(matches, outPath); err != nil {
		return err
	}
	logger.Info("governance matches written", zap.String("path", outPath))

	logRun(logger, workdir, audit.Entry{
		Action:  audit.ActionGovernance,
		Scope:   owner + "/" + repo,
		Summary: fmt.Sprintf("%d roster matches", len(matches)),
		Detail:  map[string]any{"matches": len(matches), "pattern": pattern},
	})
	return nil
}
