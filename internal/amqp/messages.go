package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetbot/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventExpenseLogged is the routing key and type of expense events.
const EventExpenseLogged = "expense.logged"

// ExpenseLoggedMessage carries a full copy of an appended expense so
// consumers never have to read the remote table back.
type ExpenseLoggedMessage struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	User      string    `json:"user"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	RawText   string    `json:"raw_text"`
	RowRef    string    `json:"row_ref,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseLoggedMessage creates an event for an expense stored at rowRef.
func NewExpenseLoggedMessage(e core.Expense, rowRef string) *ExpenseLoggedMessage {
	return &ExpenseLoggedMessage{
		EventID:   uuid.NewString(),
		Type:      EventExpenseLogged,
		User:      e.User,
		Category:  e.Category,
		Amount:    e.Amount.String(),
		RawText:   e.RawText,
		RowRef:    rowRef,
		Timestamp: e.Timestamp.UTC(),
	}
}

// Expense converts the message back into a validated expense.
func (m *ExpenseLoggedMessage) Expense() (core.Expense, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse amount %q: %w", m.Amount, err)
	}
	e := core.Expense{
		User:      m.User,
		Category:  m.Category,
		Amount:    amount,
		RawText:   m.RawText,
		Timestamp: m.Timestamp,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseLoggedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseLoggedMessageFromJSON decodes a message from JSON bytes
func ExpenseLoggedMessageFromJSON(data []byte) (*ExpenseLoggedMessage, error) {
	var msg ExpenseLoggedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != "" && msg.Type != EventExpenseLogged {
		return nil, fmt.Errorf("unexpected event type %q", msg.Type)
	}
	return &msg, nil
}
