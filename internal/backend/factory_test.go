package backend

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expenses/internal/config"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{LedgerBackend: "memory"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		LedgerBackend: "sqlite",
		SQLiteDBPath:  "x.db",
		AMQPURL:       "amqp://localhost/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.AMQPURL != "amqp://localhost/" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestBackendTypeIsValid(t *testing.T) {
	if !JSONBackend.IsValid() || !SQLiteBackend.IsValid() {
		t.Fatal("known backends should be valid")
	}
	if BackendType("sheets").IsValid() {
		t.Fatal("sheets is not a ledger backend")
	}
}

func TestCreateJSONBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.json")
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: JSONBackend, LedgerPath: path})
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer res.Close()

	if _, err := res.Service.Record(ctx, 3, "tea", "food"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("ledger file not written: %v", err)
	}
}

func TestCreateBackendTagsComponents(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Component: applog.ComponentApp, Output: &buf})
	path := filepath.Join(t.TempDir(), "expenses.json")

	res, err := NewFactory(logger).CreateBackend(ctx, Config{Type: JSONBackend, LedgerPath: path})
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer res.Close()
	if _, err := res.Service.Record(ctx, 3, "tea", "food"); err != nil {
		t.Fatalf("record: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := map[string]string{
		"Initialized JSON ledger":       "component=backend",
		"Ledger loaded":                 "component=ledger",
		"Expense appended":              "component=ledger",
		"AMQP publisher not configured": "component=service",
	}
	for msg, component := range want {
		found := false
		for _, line := range lines {
			if strings.Contains(line, msg) {
				found = true
				if !strings.Contains(line, component) {
					t.Fatalf("%q logged without %s: %s", msg, component, line)
				}
			}
		}
		if !found {
			t.Fatalf("no log line for %q in:\n%s", msg, buf.String())
		}
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "expenses.db")
	f := NewFactory(nil)

	res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	if _, err := res.Service.Record(ctx, 3, "tea", "food"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("reopen backend: %v", err)
	}
	defer res.Close()
	if got := len(res.Service.Expenses()); got != 1 {
		t.Fatalf("expected 1 expense after reopen, got %d", got)
	}
}

func TestCreateBackendCorruptLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: JSONBackend, LedgerPath: path})
	if !errors.Is(err, ledger.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestCreateBackendInvalidType(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "memory"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBackendResultCloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
