package core

// Total is the summed amount of every record sharing Key.
type Total struct {
	Key    string
	Amount float64
}

// Totals lists groups in the order their key first appeared in the ledger.
type Totals []Total

// Map returns the totals keyed by group.
func (t Totals) Map() map[string]float64 {
	m := make(map[string]float64, len(t))
	for _, g := range t {
		m[g.Key] = g.Amount
	}
	return m
}

// Sum returns the grand total across all groups.
func (t Totals) Sum() float64 {
	var s float64
	for _, g := range t {
		s += g.Amount
	}
	return s
}

// MonthlyTotals groups records by the YYYY-MM prefix of their date.
func MonthlyTotals(records []Expense) Totals {
	return groupBy(records, Expense.MonthKey)
}

// CategoryTotals groups records by exact category string.
func CategoryTotals(records []Expense) Totals {
	return groupBy(records, func(e Expense) string { return e.Category })
}

func groupBy(records []Expense, key func(Expense) string) Totals {
	out := Totals{}
	index := make(map[string]int)
	for _, e := range records {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Total{Key: k})
		}
		out[i].Amount += e.Amount
	}
	return out
}
