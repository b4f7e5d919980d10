package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/sheets/memory"

	"github.com/shopspring/decimal"
)

type fakePublisher struct {
	published []string
	err       error
	closed    bool
}

func (p *fakePublisher) PublishExpenseLogged(_ context.Context, e core.Expense, rowRef string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, rowRef)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func sampleExpense() core.Expense {
	return core.Expense{
		User:      "alice",
		Category:  "food",
		Amount:    decimal.NewFromInt(200),
		RawText:   "swiggy",
		Timestamp: time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestLogExpense(t *testing.T) {
	t.Run("appends then publishes", func(t *testing.T) {
		store := memory.New()
		pub := &fakePublisher{}
		svc := NewExpenseService(store, pub, log.Discard())

		ref, err := svc.LogExpense(context.Background(), sampleExpense())
		if err != nil {
			t.Fatalf("LogExpense: %v", err)
		}
		if ref != "mem:2" {
			t.Errorf("ref = %q, want mem:2", ref)
		}
		if len(pub.published) != 1 || pub.published[0] != ref {
			t.Errorf("published = %v, want [%s]", pub.published, ref)
		}
	})

	t.Run("publish failure does not fail the append", func(t *testing.T) {
		store := memory.New()
		svc := NewExpenseService(store, &fakePublisher{err: errors.New("broker down")}, log.Discard())

		if _, err := svc.LogExpense(context.Background(), sampleExpense()); err != nil {
			t.Fatalf("LogExpense: %v", err)
		}
		rows, _ := store.ReadRows(context.Background())
		if len(rows) != 1 {
			t.Errorf("rows = %d, want 1", len(rows))
		}
	})

	t.Run("append failure is returned and nothing is published", func(t *testing.T) {
		store := memory.New()
		store.AppendErr = errors.New("quota exceeded")
		pub := &fakePublisher{}
		svc := NewExpenseService(store, pub, log.Discard())

		if _, err := svc.LogExpense(context.Background(), sampleExpense()); err == nil {
			t.Fatal("expected error")
		}
		if len(pub.published) != 0 {
			t.Errorf("published = %v, want none", pub.published)
		}
	})

	t.Run("invalid expense", func(t *testing.T) {
		svc := NewExpenseService(memory.New(), nil, log.Discard())
		e := sampleExpense()
		e.User = ""
		_, err := svc.LogExpense(context.Background(), e)
		if !errors.Is(err, core.ErrEmptyUser) {
			t.Errorf("err = %v, want ErrEmptyUser", err)
		}
	})

	t.Run("nil publisher", func(t *testing.T) {
		svc := NewExpenseService(memory.New(), nil, log.Discard())
		if _, err := svc.LogExpense(context.Background(), sampleExpense()); err != nil {
			t.Fatalf("LogExpense: %v", err)
		}
	})
}

func TestExpenseService_Close(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		if err := NewExpenseService(memory.New(), nil, nil).Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("closes publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		if err := NewExpenseService(memory.New(), pub, nil).Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Error("publisher should be closed")
		}
	})
}
