package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/audit"
	"github.com/orglens/orglens/internal/config"
	"github.com/orglens/orglens/internal/db"
	"github.com/orglens/orglens/internal/github"
	"github.com/orglens/orglens/internal/observability"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `orglens init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the run logger from config and the --verbose flag.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.LogLevel, verbose)
}

// newClient builds the live platform adapter. The token comes from the
// GITHUB_TOKEN environment variable and may be absent.
func newClient(cfg *config.Config) github.Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	return github.NewRESTClient(os.Getenv("GITHUB_TOKEN"), timeout)
}

// ensureWorkdir creates the working directory if needed.
func ensureWorkdir(workdir string) error {
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return fmt.Errorf("creating workdir %s: %w", workdir, err)
	}
	return nil
}

// logRun appends a run entry to the local run log under the workdir. The
// log is best-effort: a failure is reported but never fails the command.
func logRun(logger *zap.Logger, workdir string, entry audit.Entry) {
	database, err := db.Open(filepath.Join(workdir, "orglens.db"))
	if err != nil {
		logger.Warn("could not open run log", zap.Error(err))
		return
	}
	defer database.Close()

	store := audit.NewStore(database)
	if err := store.Log(context.Background(), entry); err != nil {
		logger.Warn("could not record run", zap.Error(err))
	}
}
