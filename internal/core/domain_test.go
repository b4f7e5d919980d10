package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		User:      "alice",
		Category:  "food",
		Amount:    decimal.NewFromInt(250),
		RawText:   "groceries",
		Timestamp: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}

	bads := []struct {
		e   Expense
		err error
	}{
		{Expense{User: "", Category: "c", Amount: decimal.NewFromInt(1), RawText: "x"}, ErrEmptyUser},
		{Expense{User: "u", Category: " ", Amount: decimal.NewFromInt(1), RawText: "x"}, ErrEmptyCategory},
		{Expense{User: "u", Category: "c", Amount: decimal.NewFromInt(-1), RawText: "x"}, ErrInvalidAmount},
		{Expense{User: "u", Category: "c", Amount: decimal.NewFromInt(1), RawText: ""}, ErrEmptyRawText},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestExpenseRowEncoding(t *testing.T) {
	e := Expense{
		User:      "alice",
		Category:  "food",
		Amount:    decimal.RequireFromString("12.50"),
		RawText:   "swiggy",
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("IST", 5*3600+1800)),
	}
	r := e.Row()
	if r.Amount != "12.5" {
		t.Fatalf("amount cell = %q", r.Amount)
	}
	if r.Timestamp != "2025-03-03T23:36:07.008Z" {
		t.Fatalf("timestamp cell = %q", r.Timestamp)
	}
	vals := r.Values()
	if len(vals) != 5 || vals[0] != "alice" || vals[1] != "food" || vals[3] != "swiggy" {
		t.Fatalf("unexpected values %v", vals)
	}
}

func TestRowFromCellsAndParsing(t *testing.T) {
	r := RowFromCells([]string{" bob ", "travel", "30"})
	if r.User != "bob" || r.Category != "travel" || r.RawText != "" || r.Timestamp != "" {
		t.Fatalf("unexpected row %+v", r)
	}
	if d, ok := r.ParsedAmount(); !ok || !d.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("amount = %v ok=%v", d, ok)
	}
	if _, ok := r.Date(); ok {
		t.Fatal("expected no date for missing timestamp")
	}

	cases := []struct {
		in string
		ok bool
	}{
		{"", false},
		{"abc", false},
		{"12,5", true},
		{"7.25", true},
	}
	for _, tc := range cases {
		_, ok := Row{Amount: tc.in}.ParsedAmount()
		if ok != tc.ok {
			t.Fatalf("%q expected ok=%v", tc.in, tc.ok)
		}
	}

	d, ok := Row{Timestamp: "2025-06-01T08:00:00.000Z"}.Date()
	if !ok || d != "2025-06-01" {
		t.Fatalf("date = %q ok=%v", d, ok)
	}
}
