package sqlite

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	applog "expenses/internal/log"
)

func TestSchemaMigratorUpgradesOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentStorage, Output: &buf})
	m := schemaMigrator{dbPath: filepath.Join(t.TempDir(), "expenses.db"), logger: logger}

	v, err := m.upgrade()
	if err != nil {
		t.Fatalf("first upgrade: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
	if !strings.Contains(buf.String(), "version=1") || !strings.Contains(buf.String(), "operation=migrate") {
		t.Fatalf("expected migration log line, got %s", buf.String())
	}

	buf.Reset()
	v, err = m.upgrade()
	if err != nil {
		t.Fatalf("second upgrade: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log for an up-to-date schema, got %s", buf.String())
	}
}

func TestNewRefusesDirtySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	p, err := New(path, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.db.Exec(`UPDATE schema_migrations SET dirty = 1`); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}
	p.Close()

	if _, err := New(path, nil); !errors.Is(err, ErrDirtySchema) {
		t.Fatalf("expected ErrDirtySchema, got %v", err)
	}
}
