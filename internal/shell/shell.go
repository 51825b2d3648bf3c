// Package shell implements the numbered interactive menu.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"expenses/internal/core"
)

// Tracker is the ledger surface the menu drives.
type Tracker interface {
	Record(ctx context.Context, amount float64, description, category string) (core.Expense, error)
	Expenses() []core.Expense
	MonthlySummary() core.Totals
	CategorySummary() core.Totals
}

// errEOF ends the session when input runs out mid-prompt.
var errEOF = errors.New("end of input")

type Shell struct {
	tracker Tracker
	in      *bufio.Reader
	out     io.Writer
}

func New(tracker Tracker, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		tracker: tracker,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run loops over the menu until the user exits or input ends. A failure to
// record an expense ends the session with that error.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.prompt("Enter your choice (1-5): ")
		if err != nil {
			return s.done(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := s.addExpense(ctx); err != nil {
				return s.done(err)
			}
		case "2":
			s.viewExpenses()
		case "3":
			s.printTotals("Month", s.tracker.MonthlySummary())
		case "4":
			s.printTotals("Category", s.tracker.CategorySummary())
		case "5":
			fmt.Fprintln(s.out, "Thank you for using the Expense Tracker. Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
	}
}

func (s *Shell) done(err error) error {
	if errors.Is(err, errEOF) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "\nExpense Tracker Menu:")
	fmt.Fprintln(s.out, "1. Add Expense")
	fmt.Fprintln(s.out, "2. View Expenses")
	fmt.Fprintln(s.out, "3. Monthly Summary")
	fmt.Fprintln(s.out, "4. Category Summary")
	fmt.Fprintln(s.out, "5. Exit")
}

// prompt reads one line of any length. A last line without a newline still
// counts; errEOF is returned only once nothing is left.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", errEOF
	case err != nil && !errors.Is(err, io.EOF):
		return "", fmt.Errorf("read input: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// promptAmount re-prompts until the input is a finite non-negative number.
func (s *Shell) promptAmount() (float64, error) {
	for {
		line, err := s.prompt("Enter expense amount: $")
		if err != nil {
			return 0, err
		}
		amount, err := core.ParseAmount(line)
		if err == nil {
			return amount, nil
		}
		fmt.Fprintln(s.out, "Invalid input. Please enter a number.")
	}
}

func (s *Shell) addExpense(ctx context.Context) error {
	amount, err := s.promptAmount()
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter expense description: ")
	if err != nil {
		return err
	}
	category, err := s.prompt("Enter expense category: ")
	if err != nil {
		return err
	}

	if _, err := s.tracker.Record(ctx, amount, description, category); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Expense added successfully!")
	return nil
}

func (s *Shell) viewExpenses() {
	PrintExpenses(s.out, s.tracker.Expenses())
}

func (s *Shell) printTotals(label string, totals core.Totals) {
	PrintTotals(s.out, label, totals)
}

// PrintExpenses writes one line per record, or a notice for an empty ledger.
func PrintExpenses(w io.Writer, records []core.Expense) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No expenses recorded.")
		return
	}
	for _, e := range records {
		fmt.Fprintf(w, "Date: %s, Amount: %s, Description: %s, Category: %s\n",
			e.Date, core.FormatAmount(e.Amount), e.Description, e.Category)
	}
}

// PrintTotals writes one "<label>: key, Total: $x.xx" line per group.
func PrintTotals(w io.Writer, label string, totals core.Totals) {
	for _, t := range totals {
		fmt.Fprintf(w, "%s: %s, Total: %s\n", label, t.Key, core.FormatAmount(t.Amount))
	}
}
