package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/audit"
	"github.com/orglens/orglens/internal/progress"
	"github.com/orglens/orglens/internal/resolver"
	"github.com/orglens/orglens/internal/roster"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve roster employees to platform usernames",
	Long: `Mines the commit history of the given projects for organization email
addresses, confirms candidates via commit-authorship search, and falls back
to a capped heuristic user search. The roster file is updated in place;
existing resolutions are never downgraded.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("roster", "", "roster JSON file (required)")
	resolveCmd.Flags().String("projects", "", "comma-separated owner/repo list to mine (required)")
	resolveCmd.Flags().String("workdir", "", "working directory for raw evidence and the run log (required)")
	resolveCmd.MarkFlagRequired("roster")
	resolveCmd.MarkFlagRequired("projects")
	resolveCmd.MarkFlagRequired("workdir")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rosterPath, _ := cmd.Flags().GetString("roster")
	projectsStr, _ := cmd.Flags().GetString("projects")
	workdir, _ := cmd.Flags().GetString("workdir")

	if err := ensureWorkdir(workdir); err != nil {
		return err
	}
	ros, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}
	projects, err := resolver.ParseProjects(projectsStr)
	if err != nil {
		return err
	}

	fmt.Printf("Unresolved: %d/%d\n", len(ros.Unresolved()), len(ros.Employees))

	res := resolver.New(newClient(cfg), cfg, logger, progress.NewReporter())
	outcome, err := res.Run(context.Background(), ros, projects, workdir)
	if err != nil {
		return err
	}

	if err := ros.Save(rosterPath); err != nil {
		return err
	}

	fmt.Printf("New resolutions: %d (git-email: %d, user search: %d)\n",
		outcome.Resolved(), outcome.ByEmail, outcome.ByUserSearch)
	if outcome.SearchSkipped {
		fmt.Printf("User search skipped: %d remaining (cap %d)\n", outcome.StillOpen, cfg.UserSearchCap)
	}
	fmt.Printf("Total: %d/%d (%.1f%%)\n", ros.ResolvedCount, ros.TotalEmployees, ros.CoveragePct)

	logRun(logger, workdir, audit.Entry{
		Action:  audit.ActionResolve,
		Scope:   projectsStr,
		Summary: fmt.Sprintf("%d new resolutions, coverage %.1f%%", outcome.Resolved(), ros.CoveragePct),
		Detail: map[string]any{
			"by_email":       outcome.ByEmail,
			"by_user_search": outcome.ByUserSearch,
			"still_open":     outcome.StillOpen,
			"coverage_pct":   ros.CoveragePct,
		},
	})
	return nil
}
