package core

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the layout of Expense.Date.
const DateLayout = "2006-01-02"

const monthKeyLen = len("2006-01")

type (
	// Expense is a single ledger record. Values are never modified after
	// they have been appended to a ledger.
	Expense struct {
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewExpense builds a record dated on the local calendar day of now.
func NewExpense(now time.Time, amount float64, description, category string) Expense {
	return Expense{
		Date:        now.Local().Format(DateLayout),
		Amount:      amount,
		Description: description,
		Category:    category,
	}
}

// MonthKey returns the YYYY-MM prefix of the record date.
func (e Expense) MonthKey() string {
	if len(e.Date) < monthKeyLen {
		return e.Date
	}
	return e.Date[:monthKeyLen]
}

// validateDate checks that the date starts with a YYYY-MM month key.
func (e Expense) validateDate() error {
	if len(e.Date) < monthKeyLen {
		return ErrInvalidDate
	}
	if _, err := time.Parse("2006-01", e.Date[:monthKeyLen]); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.validateDate(); err != nil {
		return err
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}
