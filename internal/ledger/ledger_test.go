package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"expenses/internal/core"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
	"expenses/internal/storage/jsonfile"
)

// fakePersister keeps a copy of the last saved ledger and can be told to fail.
type fakePersister struct {
	saved   []core.Expense
	loadErr error
	saveErr error
	saves   int
}

func (f *fakePersister) Load(context.Context) ([]core.Expense, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]core.Expense(nil), f.saved...), nil
}

func (f *fakePersister) Save(_ context.Context, records []core.Expense) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]core.Expense(nil), records...)
	return nil
}

func sample() []core.Expense {
	return []core.Expense{
		{Date: "2025-04-02", Amount: 12.5, Description: "coffee", Category: "food"},
		{Date: "2025-04-02", Amount: 7.5, Description: "tea", Category: "food"},
		{Date: "2025-05-01", Amount: 5, Description: "bus", Category: "transport"},
	}
}

func TestOpenEmpty(t *testing.T) {
	s, err := ledger.Open(context.Background(), &fakePersister{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Len() != 0 || len(s.All()) != 0 {
		t.Fatalf("expected empty ledger, got %v", s.All())
	}
}

func TestAppendMonotonicity(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s, err := ledger.Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i, e := range sample() {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if s.Len() != i+1 {
			t.Fatalf("expected %d records, got %d", i+1, s.Len())
		}
		if !reflect.DeepEqual(p.saved, s.All()) {
			t.Fatalf("persisted ledger differs from memory after append %d", i)
		}
	}
	if !reflect.DeepEqual(s.All(), sample()) {
		t.Fatalf("got %v, want %v", s.All(), sample())
	}
	if p.saves != len(sample()) {
		t.Fatalf("expected one save per append, got %d", p.saves)
	}
}

func TestAppendRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{saved: sample()[:1]}
	s, err := ledger.Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	boom := errors.New("disk full")
	p.saveErr = boom
	err = s.Append(ctx, sample()[1])
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if s.Len() != 1 || !reflect.DeepEqual(s.All(), sample()[:1]) {
		t.Fatalf("in-memory ledger not rolled back: %v", s.All())
	}

	p.saveErr = nil
	if err := s.Append(ctx, sample()[2]); err != nil {
		t.Fatalf("append after failure: %v", err)
	}
	want := []core.Expense{sample()[0], sample()[2]}
	if !reflect.DeepEqual(s.All(), want) {
		t.Fatalf("got %v, want %v", s.All(), want)
	}
}

func TestAppendRejectsInvalidAmount(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s, _ := ledger.Open(ctx, p, nil)
	err := s.Append(ctx, core.Expense{Date: "2025-01-01", Amount: -3})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if s.Len() != 0 || p.saves != 0 {
		t.Fatalf("invalid record reached the ledger")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := ledger.Open(ctx, &fakePersister{saved: sample()}, nil)
	all := s.All()
	all[0].Amount = 999
	if s.All()[0].Amount != 12.5 {
		t.Fatal("All exposed the internal ledger")
	}
}

func TestOpenPropagatesLoadErrors(t *testing.T) {
	boom := errors.New("permission denied")
	if _, err := ledger.Open(context.Background(), &fakePersister{loadErr: boom}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestOpenRejectsMalformedDates(t *testing.T) {
	p := &fakePersister{saved: []core.Expense{{Date: "2025", Amount: 1}}}
	if _, err := ledger.Open(context.Background(), p, nil); !errors.Is(err, ledger.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestOpenRejectsInvalidAmounts(t *testing.T) {
	cases := map[string]float64{
		"negative": -4.5,
		"nan":      math.NaN(),
		"infinite": math.Inf(1),
	}
	for name, amount := range cases {
		t.Run(name, func(t *testing.T) {
			p := &fakePersister{saved: []core.Expense{
				sample()[0],
				{Date: "2025-04-03", Amount: amount, Description: "refund", Category: "food"},
			}}
			_, err := ledger.Open(context.Background(), p, nil)
			if !errors.Is(err, ledger.ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if !errors.Is(err, core.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount in chain, got %v", err)
			}
			if !strings.Contains(err.Error(), "record 1") {
				t.Fatalf("error does not name the record: %v", err)
			}
		})
	}
}

func TestAppendLogsWithLedgerComponent(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentLedger,
		Output:    &buf,
	})

	s, err := ledger.Open(ctx, &fakePersister{}, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Append(ctx, sample()[2]); err != nil {
		t.Fatalf("append: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"component=ledger",
		"operation=append",
		"category=transport",
		"date=2025-05-01",
		"records=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %q: %s", want, out)
		}
	}
}

func TestRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.json")

	s, err := ledger.Open(ctx, jsonfile.New(path), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, e := range sample() {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	reloaded, err := ledger.Open(ctx, jsonfile.New(path), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(reloaded.All(), sample()) {
		t.Fatalf("got %v, want %v", reloaded.All(), sample())
	}

	again, err := ledger.Open(ctx, jsonfile.New(path), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(again.All(), reloaded.All()) {
		t.Fatal("loading twice produced different ledgers")
	}
}

func TestIndependentStores(t *testing.T) {
	ctx := context.Background()
	a, _ := ledger.Open(ctx, &fakePersister{}, nil)
	b, _ := ledger.Open(ctx, &fakePersister{}, nil)
	if err := a.Append(ctx, sample()[0]); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Fatal("stores share state")
	}
}
