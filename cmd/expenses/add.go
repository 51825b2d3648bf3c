package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"expenses/internal/core"
)

type addCmd struct {
	amount      string
	description string
	category    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an expense dated today" }
func (*addCmd) Usage() string {
	return `expenses add -a <amount> [-d <description>] [-c <category>]

  Appends an expense to the ledger. The date is today's local date.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, e.g. 12.50")
	f.StringVar(&c.description, "d", "", "description")
	f.StringVar(&c.category, "c", "", "category")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}

	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	e, err := s.backend.Service.Record(ctx, amount, c.description, c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording expense: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s on %s\n", core.FormatAmount(e.Amount), e.Date)
	return subcommands.ExitSuccess
}
