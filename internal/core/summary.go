package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is a per-category breakdown in first-seen category order.
type Summary []CategoryAmount

// Total returns the sum across all categories.
func (s Summary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s {
		total = total.Add(c.Amount)
	}
	return total
}

// Lookup returns the amount for an exact category name.
func (s Summary) Lookup(name string) (decimal.Decimal, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}
