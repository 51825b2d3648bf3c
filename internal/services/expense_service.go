package services

import (
	"context"
	"fmt"
	"time"

	"expenses/internal/core"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
)

// Publisher announces expenses after they are durably stored.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, e core.Expense) error
}

// ExpenseService records expenses in the ledger and reads summaries back.
type ExpenseService struct {
	store     *ledger.Store
	publisher Publisher
	now       func() time.Time
	logger    *applog.Logger
}

// NewExpenseService wires a service around store. publisher may be nil to
// disable events; now defaults to time.Now.
func NewExpenseService(store *ledger.Store, publisher Publisher, now func() time.Time, logger *applog.Logger) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = applog.Default(applog.ComponentService)
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		now:       now,
		logger:    logger,
	}
}

// Record dates a new expense today and appends it to the ledger. It returns
// only after the ledger has been persisted.
func (s *ExpenseService) Record(ctx context.Context, amount float64, description, category string) (core.Expense, error) {
	e := core.NewExpense(s.now(), amount, description, category)

	// Persist first; the event is best-effort
	if err := s.store.Append(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("record expense: %w", err)
	}

	if err := s.publishRecorded(ctx, e); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpPublish).
			With(applog.FieldDate, e.Date).
			WithError(err)
		s.logger.ErrorContext(ctx, "Failed to publish expense recorded message", fields.ToSlice()...)
	}

	return e, nil
}

// Expenses returns every recorded expense in insertion order.
func (s *ExpenseService) Expenses() []core.Expense {
	return s.store.All()
}

func (s *ExpenseService) MonthlySummary() core.Totals {
	return core.MonthlyTotals(s.store.All())
}

func (s *ExpenseService) CategorySummary() core.Totals {
	return core.CategoryTotals(s.store.All())
}

func (s *ExpenseService) publishRecorded(ctx context.Context, e core.Expense) error {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping expense recorded message")
		return nil
	}
	return s.publisher.PublishExpenseRecorded(ctx, e)
}
