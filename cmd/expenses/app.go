package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"expenses/internal/backend"
	"expenses/internal/cli"
	"expenses/internal/config"
	applog "expenses/internal/log"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&shellCmd{}, "ledger")
	c.Register(&addCmd{}, "ledger")
	c.Register(&listCmd{}, "ledger")

	c.Register(&monthlyCmd{}, "reports")
	c.Register(&categoriesCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
}

// session is what every subcommand needs: configuration, a logger and the
// opened ledger.
type session struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
}

// openSession loads configuration and opens the ledger. Failures are
// reported on stderr.
func openSession(ctx context.Context) (*session, subcommands.ExitStatus) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	logger := cli.SetupLogger(cfg)

	res, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", applog.FieldBackend, cfg.LedgerBackend, applog.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	return &session{cfg: cfg, logger: logger, backend: res}, subcommands.ExitSuccess
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("Failed to release ledger resources", applog.FieldError, err)
	}
}
