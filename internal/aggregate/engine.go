// Package aggregate computes per-user totals over the expense table.
//
// Every query performs a full range read and reduces client-side; nothing is
// cached between calls.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/sheets"

	"github.com/shopspring/decimal"
)

type Engine struct {
	rows sheets.RowReader
	now  func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used by TotalToday.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(rows sheets.RowReader, opts ...Option) *Engine {
	e := &Engine{rows: rows, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TotalToday sums the user's rows timestamped on the current UTC date.
// Rows without a timestamp are not counted.
func (e *Engine) TotalToday(ctx context.Context, user string) (decimal.Decimal, error) {
	today := e.now().UTC().Format("2006-01-02")
	return e.sum(ctx, "total_today", func(r core.Row) bool {
		if r.User != user {
			return false
		}
		d, ok := r.Date()
		return ok && d == today
	})
}

// FullSummary groups the user's spending by lowercased category in the order
// categories are first seen.
func (e *Engine) FullSummary(ctx context.Context, user string) (core.Summary, error) {
	rows, err := e.rows.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("full summary: %w", err)
	}
	index := map[string]int{}
	var out core.Summary
	skipped := 0
	for _, r := range rows {
		if r.User != user {
			continue
		}
		amount, ok := r.ParsedAmount()
		if !ok {
			skipped++
			continue
		}
		cat := strings.ToLower(r.Category)
		if cat == "" {
			cat = core.DefaultCategory
		}
		i, seen := index[cat]
		if !seen {
			index[cat] = len(out)
			out = append(out, core.CategoryAmount{Name: cat, Amount: amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(amount)
	}
	logSkipped(ctx, "full_summary", skipped)
	return out, nil
}

// CategoryTotal sums the user's rows whose category equals category exactly.
// Callers lowercase the query; tag-derived categories keep their case and
// will not match a differently-cased query.
func (e *Engine) CategoryTotal(ctx context.Context, user, category string) (decimal.Decimal, error) {
	return e.sum(ctx, "category_total", func(r core.Row) bool {
		return r.User == user && r.Category == category
	})
}

// TotalSpent sums all of the user's rows.
func (e *Engine) TotalSpent(ctx context.Context, user string) (decimal.Decimal, error) {
	return e.sum(ctx, "total_spent", func(r core.Row) bool {
		return r.User == user
	})
}

func (e *Engine) sum(ctx context.Context, op string, match func(core.Row) bool) (decimal.Decimal, error) {
	rows, err := e.rows.ReadRows(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", strings.ReplaceAll(op, "_", " "), err)
	}
	total := decimal.Zero
	skipped := 0
	for _, r := range rows {
		if !match(r) {
			continue
		}
		amount, ok := r.ParsedAmount()
		if !ok {
			skipped++
			continue
		}
		total = total.Add(amount)
	}
	logSkipped(ctx, op, skipped)
	return total, nil
}

func logSkipped(ctx context.Context, op string, n int) {
	if n == 0 {
		return
	}
	slog.WarnContext(ctx, "Skipped rows with unparsable amount", "operation", op, "count", n)
}
