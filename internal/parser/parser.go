// Package parser extracts expense amounts and descriptions from chat text.
package parser

import (
	"regexp"
	"strings"
	"time"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
)

// expensePattern matches "200 swiggy", "spent 300 on food", "spent 12.50 on #Snacks".
// It is unanchored: the first amount followed by letters anywhere in the
// message is taken.
var expensePattern = regexp.MustCompile(`(?i)(?:spent\s*)?(\d+(?:\.\d{1,2})?)\s*(?:on\s*)?([a-z#\s]+)`)

// Classifier resolves a category for a normalized description.
type Classifier interface {
	Classify(rawText string) string
}

// Parsed is the amount and normalized description of an expense message.
type Parsed struct {
	Amount      decimal.Decimal
	Description string
}

// Parse extracts an expense from text. ok is false when the text does not
// have the amount+description shape; such messages are not expenses.
func Parse(text string) (Parsed, bool) {
	m := expensePattern.FindStringSubmatch(text)
	if m == nil {
		return Parsed{}, false
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return Parsed{}, false
	}
	desc := strings.ToLower(strings.TrimSpace(m[2]))
	if desc == "" {
		return Parsed{}, false
	}
	return Parsed{Amount: amount, Description: desc}, true
}

// Parser turns messages into classified expense records.
type Parser struct {
	classifier Classifier
}

func New(c Classifier) *Parser {
	return &Parser{classifier: c}
}

// Expense parses text and classifies it for user. The description is stored
// as the record's raw text.
func (p *Parser) Expense(user, text string, now time.Time) (core.Expense, bool) {
	parsed, ok := Parse(text)
	if !ok {
		return core.Expense{}, false
	}
	return core.Expense{
		User:      user,
		Category:  p.classifier.Classify(parsed.Description),
		Amount:    parsed.Amount,
		RawText:   parsed.Description,
		Timestamp: now.UTC(),
	}, true
}
