package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	applog "expenses/internal/log"
	"expenses/internal/shell"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run the interactive expense menu" }
func (*shellCmd) Usage() string {
	return `expenses shell

  Runs the numbered menu to add, view and summarize expenses.
  This is the default when no subcommand is given.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	if err := shell.New(s.backend.Service, os.Stdin, os.Stdout).Run(ctx); err != nil {
		s.logger.WithComponent(applog.ComponentShell).Error("Session ended with error", applog.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
