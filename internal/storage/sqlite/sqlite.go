// Package sqlite persists a ledger in a SQLite database. The table keeps an
// explicit position column so records load back in insertion order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"expenses/internal/core"
	"expenses/internal/ledger"
	applog "expenses/internal/log"

	_ "modernc.org/sqlite"
)

type Persister struct {
	db     *sql.DB
	logger *applog.Logger
}

var _ ledger.Persister = (*Persister)(nil)

// New opens dbPath, creating the file and its directory when missing, and
// migrates it to the current schema before returning.
func New(dbPath string, logger *applog.Logger) (*Persister, error) {
	if logger == nil {
		logger = applog.Default(applog.ComponentStorage)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := (schemaMigrator{dbPath: dbPath, logger: logger}).upgrade(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}

	return &Persister{db: db, logger: logger}, nil
}

func (p *Persister) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Load implements ledger.Persister
func (p *Persister) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT date, amount, description, category FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	records := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.Date, &e.Amount, &e.Description, &e.Category); err != nil {
			return nil, fmt.Errorf("%w: scan expense: %v", ledger.ErrCorrupt, err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return records, nil
}

// Save implements ledger.Persister. The table is replaced inside a single
// transaction, so readers see either the old or the new ledger.
func (p *Persister) Save(ctx context.Context, records []core.Expense) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, date, amount, description, category) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range records {
		if _, err := stmt.ExecContext(ctx, i, e.Date, e.Amount, e.Description, e.Category); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	p.logger.DebugContext(ctx, "Ledger saved to SQLite",
		applog.FieldOperation, applog.OpSave,
		applog.FieldRecords, len(records))
	return nil
}
