package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/log"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func testExpense() core.Expense {
	return core.Expense{
		User:      "alice",
		Category:  "food",
		Amount:    decimal.RequireFromString("200.50"),
		RawText:   "swiggy",
		Timestamp: time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestExpenseLoggedMessageRoundTrip(t *testing.T) {
	msg := NewExpenseLoggedMessage(testExpense(), "Sheet1!A7:E7")
	if msg.EventID == "" {
		t.Fatal("event id should be set")
	}
	if msg.Type != EventExpenseLogged {
		t.Errorf("Type = %q, want %q", msg.Type, EventExpenseLogged)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := ExpenseLoggedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	e, err := decoded.Expense()
	if err != nil {
		t.Fatalf("Expense: %v", err)
	}
	want := testExpense()
	if e.User != want.User || e.Category != want.Category || e.RawText != want.RawText {
		t.Errorf("Expense() = %+v, want %+v", e, want)
	}
	if !e.Amount.Equal(want.Amount) {
		t.Errorf("Amount = %s, want %s", e.Amount, want.Amount)
	}
	if !e.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, want.Timestamp)
	}
	if decoded.RowRef != "Sheet1!A7:E7" {
		t.Errorf("RowRef = %q", decoded.RowRef)
	}
}

func TestExpenseLoggedMessageFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"wrong type", `{"type":"expense.deleted"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpenseLoggedMessageFromJSON([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpenseRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		msg  ExpenseLoggedMessage
	}{
		{"bad amount", ExpenseLoggedMessage{User: "u", Category: "c", Amount: "abc", RawText: "x"}},
		{"missing user", ExpenseLoggedMessage{Category: "c", Amount: "1", RawText: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.msg.Expense(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleDelivery(t *testing.T) {
	valid, err := NewExpenseLoggedMessage(testExpense(), "1").ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     int
		wantNack    int
		wantRequeue bool
		wantCalled  bool
	}{
		{name: "success", body: valid, wantAck: 1, wantCalled: true},
		{name: "handler error requeues", body: valid, handlerErr: errors.New("db locked"), wantNack: 1, wantRequeue: true, wantCalled: true},
		{name: "malformed payload is dropped", body: []byte("nope"), wantNack: 1},
	}

	c := &Client{logger: log.Discard()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &ackRecorder{}
			called := false
			c.handleDelivery(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: tt.body},
				func(_ context.Context, m *ExpenseLoggedMessage) error {
					called = true
					return tt.handlerErr
				})

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if ack.acked != tt.wantAck || ack.nacked != tt.wantNack {
				t.Errorf("acked=%d nacked=%d, want %d/%d", ack.acked, ack.nacked, tt.wantAck, tt.wantNack)
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestCloseNilClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on empty client: %v", err)
	}
}
