// Package ledger owns the in-memory list of expenses and keeps its durable
// copy in step with it.
//
// A Store is meant for a single process and is not safe for concurrent use.
// It does not lock the underlying storage: two processes writing the same
// ledger will overwrite each other.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// ErrCorrupt reports persisted contents that cannot be read back as a ledger.
var ErrCorrupt = errors.New("corrupt ledger")

// Persister is the durable side of a ledger.
type Persister interface {
	// Load returns the persisted records in insertion order. A ledger that
	// was never saved loads as empty without error.
	Load(ctx context.Context) ([]core.Expense, error)
	// Save replaces the whole persisted ledger with records.
	Save(ctx context.Context, records []core.Expense) error
}

type Store struct {
	persister Persister
	records   []core.Expense
	logger    *applog.Logger
}

// Open reconstructs a ledger from p. Every loaded record must pass the same
// checks Append applies; the first one that does not fails the whole load
// with ErrCorrupt. A nil logger falls back to the default slog logger.
func Open(ctx context.Context, p Persister, logger *applog.Logger) (*Store, error) {
	if logger == nil {
		logger = applog.Default(applog.ComponentLedger)
	}

	records, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	for i, e := range records {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorrupt, i, err)
		}
	}

	logger.DebugContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldRecords, len(records))

	return &Store{persister: p, records: records, logger: logger}, nil
}

// Append adds e to the end of the ledger and persists the result before
// returning. If persisting fails the record is dropped again so memory and
// storage stay identical.
func (s *Store) Append(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate expense: %w", err)
	}

	n := len(s.records)
	s.records = append(s.records, e)
	if err := s.persister.Save(ctx, s.records); err != nil {
		s.records = s.records[:n]
		return fmt.Errorf("save ledger: %w", err)
	}

	fields := applog.NewFields().
		WithOperation(applog.OpAppend).
		WithExpense(e.Date, e.Amount, e.Description, e.Category).
		With(applog.FieldRecords, len(s.records))
	s.logger.InfoContext(ctx, "Expense appended", fields.ToSlice()...)

	return nil
}

// All returns a copy of the ledger in insertion order.
func (s *Store) All() []core.Expense {
	return append([]core.Expense{}, s.records...)
}

func (s *Store) Len() int {
	return len(s.records)
}
