package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"expenses/internal/shell"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list every expense in insertion order" }
func (*listCmd) Usage() string {
	return `expenses list
`
}
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	shell.PrintExpenses(os.Stdout, s.backend.Service.Expenses())
	return subcommands.ExitSuccess
}

type monthlyCmd struct{}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display totals per month" }
func (*monthlyCmd) Usage() string {
	return `expenses monthly
`
}
func (*monthlyCmd) SetFlags(*flag.FlagSet) {}

func (*monthlyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	shell.PrintTotals(os.Stdout, "Month", s.backend.Service.MonthlySummary())
	return subcommands.ExitSuccess
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "display totals per category" }
func (*categoriesCmd) Usage() string {
	return `expenses categories
`
}
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (*categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	shell.PrintTotals(os.Stdout, "Category", s.backend.Service.CategorySummary())
	return subcommands.ExitSuccess
}
