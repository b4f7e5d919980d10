package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when neither a tag nor a keyword rule matches.
const DefaultCategory = "misc"

// TimestampLayout is the ISO-8601 layout written to the timestamp column.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type (
	// Expense is one logged spending record. Records are append-only.
	Expense struct {
		User      string
		Category  string
		Amount    decimal.Decimal
		RawText   string
		Timestamp time.Time
	}

	// Row is the raw cell content of one remote table row, columns A..E.
	// Cells may be missing or malformed; readers reduce best-effort.
	Row struct {
		User      string
		Category  string
		Amount    string
		RawText   string
		Timestamp string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyUser     = errors.New("empty user")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyRawText  = errors.New("empty description")
)

func (e Expense) Validate() error {
	if strings.TrimSpace(e.User) == "" {
		return ErrEmptyUser
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.RawText) == "" {
		return ErrEmptyRawText
	}
	return nil
}

// Row encodes the expense in the column layout of the remote table.
func (e Expense) Row() Row {
	return Row{
		User:      e.User,
		Category:  e.Category,
		Amount:    e.Amount.String(),
		RawText:   e.RawText,
		Timestamp: e.Timestamp.UTC().Format(TimestampLayout),
	}
}

// Values returns the row cells in column order.
func (r Row) Values() []string {
	return []string{r.User, r.Category, r.Amount, r.RawText, r.Timestamp}
}

// RowFromCells builds a Row from a possibly short list of cells.
func RowFromCells(cells []string) Row {
	get := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	return Row{
		User:      get(0),
		Category:  get(1),
		Amount:    get(2),
		RawText:   get(3),
		Timestamp: get(4),
	}
}

// ParsedAmount returns the amount cell as a decimal. Missing or malformed
// cells report ok=false.
func (r Row) ParsedAmount() (decimal.Decimal, bool) {
	s := strings.TrimSpace(r.Amount)
	if s == "" {
		return decimal.Zero, false
	}
	// Normalize decimal comma
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Date returns the YYYY-MM-DD prefix of the timestamp cell.
func (r Row) Date() (string, bool) {
	ts := strings.TrimSpace(r.Timestamp)
	if len(ts) < 10 {
		return "", false
	}
	return ts[:10], true
}
