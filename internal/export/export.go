// Package export writes expense rows as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"budgetbot/internal/core"

	"github.com/gocarina/gocsv"
)

// Record is one exported expense line.
type Record struct {
	User        string `csv:"user"`
	Category    string `csv:"category"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Timestamp   string `csv:"timestamp"`
}

// Records converts rows to export records, keeping only user's rows unless
// user is empty. Row order is preserved.
func Records(rows []core.Row, user string) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if user != "" && r.User != user {
			continue
		}
		amount := r.Amount
		if d, ok := r.ParsedAmount(); ok {
			amount = d.StringFixed(2)
		}
		out = append(out, Record{
			User:        r.User,
			Category:    r.Category,
			Amount:      amount,
			Description: r.RawText,
			Timestamp:   r.Timestamp,
		})
	}
	return out
}

// WriteCSV writes a header line followed by user's rows and returns the
// number of records written.
func WriteCSV(w io.Writer, rows []core.Row, user string) (int, error) {
	records := Records(rows, user)
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csv.NewWriter(w))); err != nil {
		return 0, fmt.Errorf("error writing CSV data: %w", err)
	}
	return len(records), nil
}
