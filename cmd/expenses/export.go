package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	applog "expenses/internal/log"
	gsheet "expenses/internal/sheets/google"
)

type exportCmd struct {
	timeout time.Duration
}

func (*exportCmd) Name() string { return "export" }
func (*exportCmd) Synopsis() string {
	return "replace a Google spreadsheet with the ledger and its summaries"
}
func (*exportCmd) Usage() string {
	return `expenses export [-timeout 1m]

  Writes the expense list, the monthly totals and the category totals to
  GOOGLE_SPREADSHEET_ID, in the tabs "<GOOGLE_SHEET_NAME>",
  "<GOOGLE_SHEET_NAME> Monthly" and "<GOOGLE_SHEET_NAME> Categories".
  Missing tabs are added to the spreadsheet; previous contents of the three
  tabs are cleared.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", time.Minute, "overall export timeout")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, status := openSession(ctx)
	if s == nil {
		return status
	}
	defer s.Close()

	if err := s.cfg.ValidateSheets(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := gsheet.New(ctx, s.cfg.GoogleSpreadsheetID, s.cfg.GoogleSheetName, gsheet.Credentials{
		JSON: s.cfg.GoogleServiceAccountJSON,
		File: s.cfg.GoogleServiceAccountFile,
	}, s.logger.WithComponent(applog.ComponentSheets))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Google Sheets: %v\n", err)
		return subcommands.ExitFailure
	}

	records := s.backend.Service.Expenses()
	if err := client.Export(ctx, records); err != nil {
		s.logger.WithComponent(applog.ComponentSheets).Error("Export failed", applog.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Exported %d expenses\n", len(records))
	return subcommands.ExitSuccess
}
