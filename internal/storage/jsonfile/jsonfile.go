// Package jsonfile persists a ledger as a single JSON document: an array of
// objects with the fields date, amount, description and category.
//
// Every save rewrites the whole document. The new contents go to a
// temporary file first and are renamed over the old one, so a failed write
// never leaves a half-written ledger behind.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"expenses/internal/core"
	"expenses/internal/ledger"
)

// DefaultPath is the ledger location relative to the working directory.
const DefaultPath = "expenses.json"

type Persister struct {
	path string
}

var _ ledger.Persister = (*Persister)(nil)

func New(path string) *Persister {
	if path == "" {
		path = DefaultPath
	}
	return &Persister{path: path}
}

func (p *Persister) Path() string { return p.path }

// Load implements ledger.Persister
func (p *Persister) Load(_ context.Context) ([]core.Expense, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	var records []core.Expense
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ledger.ErrCorrupt, p.path, err)
	}
	if records == nil {
		// a literal null document
		records = []core.Expense{}
	}
	return records, nil
}

// Save implements ledger.Persister
func (p *Persister) Save(_ context.Context, records []core.Expense) error {
	if records == nil {
		records = []core.Expense{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	tmp := p.path + ".tmp"
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", p.path, err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
