// Package google exports the ledger and its summaries to a Google
// spreadsheet. Every export replaces the previous contents of the target
// tabs, mirroring how the ledger file itself is rewritten.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	logger        *applog.Logger
}

// Credentials carries service account credentials, inline or as a file path.
type Credentials struct {
	JSON string
	File string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, spreadsheetID, sheetName string, creds Credentials, logger *applog.Logger) (*Client, error) {
	if logger == nil {
		logger = applog.Default(applog.ComponentSheets)
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID, sheetName, logger)
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *applog.Logger) (*Client, error) {
	if logger == nil {
		logger = applog.Default(applog.ComponentSheets)
	}
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Expenses"
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		expensesSheet: sheetName,
		logger:        logger,
	}, nil
}

func newSheetsService(ctx context.Context, creds Credentials, logger *applog.Logger) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(creds.JSON) != "":
		logger.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(creds.JSON)
	case strings.TrimSpace(creds.File) != "":
		logger.DebugContext(ctx, "Reading credentials from file", applog.FieldPath, creds.File)
		data, err := os.ReadFile(creds.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Export writes records, their monthly totals and their category totals to
// three tabs, adding any tab the spreadsheet does not have yet. The tabs are
// written concurrently; the first failure cancels the remaining writes.
func (c *Client) Export(ctx context.Context, records []core.Expense) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tabs := Tabs(c.expensesSheet, records)
	names := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		names = append(names, tab.Name)
	}
	if err := c.ensureTabs(ctx, names); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, tab := range tabs {
		tab := tab
		g.Go(func() error {
			return c.replace(gctx, tab)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Exported ledger to Google Sheets",
		applog.FieldOperation, applog.OpExport,
		applog.FieldSpreadsheet, c.spreadsheetID,
		applog.FieldRecords, len(records))
	return nil
}

// ensureTabs adds the named tabs missing from the spreadsheet in a single
// batch update.
func (c *Client) ensureTabs(ctx context.Context, names []string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}

	existing := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var (
		reqs    []*gsheet.Request
		missing []string
	)
	for _, name := range names {
		if existing[name] {
			continue
		}
		missing = append(missing, name)
		reqs = append(reqs, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		})
	}
	if len(reqs) == 0 {
		return nil
	}

	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add tabs %s: %w", strings.Join(missing, ", "), err)
	}

	c.logger.InfoContext(ctx, "Added spreadsheet tabs",
		applog.FieldSpreadsheet, c.spreadsheetID,
		applog.FieldTabs, strings.Join(missing, ","))
	return nil
}

func (c *Client) replace(ctx context.Context, tab Tab) error {
	rng := a1Range(tab.Name, "A:D")
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	vr := &gsheet.ValueRange{Values: tab.Rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1Range(tab.Name, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", tab.Name, err)
	}
	return nil
}

// a1Range quotes the tab name so names with spaces or apostrophes parse.
func a1Range(tab, cells string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}
