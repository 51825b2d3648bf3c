package google

import "expenses/internal/core"

// Tab is the full contents of one sheet tab, header row included.
type Tab struct {
	Name string
	Rows [][]any
}

// Tabs lays out the expense list and both summaries. Summary tabs are named
// after base with a " Monthly" and " Categories" suffix.
func Tabs(base string, records []core.Expense) []Tab {
	return []Tab{
		{Name: base, Rows: expenseRows(records)},
		{Name: base + " Monthly", Rows: totalRows("Month", core.MonthlyTotals(records))},
		{Name: base + " Categories", Rows: totalRows("Category", core.CategoryTotals(records))},
	}
}

func expenseRows(records []core.Expense) [][]any {
	rows := make([][]any, 0, len(records)+1)
	rows = append(rows, []any{"Date", "Amount", "Description", "Category"})
	for _, e := range records {
		rows = append(rows, []any{e.Date, e.Amount, e.Description, e.Category})
	}
	return rows
}

func totalRows(keyHeader string, totals core.Totals) [][]any {
	rows := make([][]any, 0, len(totals)+1)
	rows = append(rows, []any{keyHeader, "Total"})
	for _, t := range totals {
		rows = append(rows, []any{t.Key, t.Amount})
	}
	return rows
}
