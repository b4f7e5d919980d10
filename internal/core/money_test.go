package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"5000", "5000", true},
		{"12.5", "12.5", true},
		{" 2.50 ", "2.5", true},
		{"0", "", false},
		{"0.00", "", false},
		{"-1", "", false},
		{"+1", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney("₹", decimal.NewFromInt(200)); got != "₹200.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney("$", decimal.RequireFromString("3.456")); got != "$3.46" {
		t.Fatalf("got %q", got)
	}
}

func TestSummaryTotalAndLookup(t *testing.T) {
	s := Summary{
		{Name: "food", Amount: decimal.NewFromInt(150)},
		{Name: "travel", Amount: decimal.NewFromInt(30)},
	}
	if !s.Total().Equal(decimal.NewFromInt(180)) {
		t.Fatalf("total = %s", s.Total())
	}
	if v, ok := s.Lookup("travel"); !ok || !v.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("lookup travel = %s ok=%v", v, ok)
	}
	if _, ok := s.Lookup("Food"); ok {
		t.Fatal("lookup must be case-sensitive")
	}
}
