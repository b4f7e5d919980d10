// Package core provides money parsing and formatting utilities.
//
// Amounts are carried as shopspring decimals end to end; the remote table
// stores them as decimal strings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes every amount in replies.
const DefaultCurrencySymbol = "₹"

// ParseAmount parses a strictly positive decimal such as "5000" or "12.50".
//
// Leading/trailing whitespace is ignored. Signs, exponents and anything that
// is not a plain decimal are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("5000")  -> 5000, nil
//	ParseAmount("12.5")  -> 12.5, nil
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("-10")   -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "+-eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders an amount with the currency glyph and two fraction
// digits, e.g. "₹250.00".
func FormatMoney(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}
