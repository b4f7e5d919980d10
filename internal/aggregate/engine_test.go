package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/sheets/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEngine(rows ...core.Row) *Engine {
	return New(memory.New(rows...), WithClock(func() time.Time { return fixedNow }))
}

func TestFullSummary(t *testing.T) {
	e := newEngine(
		core.Row{User: "u", Category: "food", Amount: "100"},
		core.Row{User: "u", Category: "food", Amount: "50"},
		core.Row{User: "u", Category: "travel", Amount: "30"},
	)
	got, err := e.FullSummary(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "food", got[0].Name)
	assert.True(t, got[0].Amount.Equal(dec("150")))
	assert.Equal(t, "travel", got[1].Name)
	assert.True(t, got[1].Amount.Equal(dec("30")))
}

func TestFullSummaryScopesLowercasesAndSkips(t *testing.T) {
	e := newEngine(
		core.Row{User: "other", Category: "rent", Amount: "999"},
		core.Row{User: "u", Category: "Food", Amount: "10"},
		core.Row{User: "u", Category: "food", Amount: "5.5"},
		core.Row{User: "u", Category: "travel", Amount: "n/a"},
		core.Row{User: "u", Category: "", Amount: "2"},
	)
	got, err := e.FullSummary(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "food", got[0].Name)
	assert.True(t, got[0].Amount.Equal(dec("15.5")))
	assert.Equal(t, "misc", got[1].Name)

	empty, err := e.FullSummary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTotalToday(t *testing.T) {
	e := newEngine(
		core.Row{User: "u", Category: "food", Amount: "100", Timestamp: "2025-06-15T08:00:00.000Z"},
		core.Row{User: "u", Category: "food", Amount: "40", Timestamp: "2025-06-14T23:59:59.000Z"},
		core.Row{User: "u", Category: "food", Amount: "7", Timestamp: ""},
		core.Row{User: "v", Category: "food", Amount: "1000", Timestamp: "2025-06-15T08:00:00.000Z"},
		core.Row{User: "u", Category: "food", Amount: "bad", Timestamp: "2025-06-15T01:00:00.000Z"},
		core.Row{User: "u", Category: "misc", Amount: "2.25", Timestamp: "2025-06-15T23:00:00.000Z"},
	)
	got, err := e.TotalToday(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("102.25")), "got %s", got)
}

func TestCategoryTotalIsCaseSensitive(t *testing.T) {
	e := newEngine(
		core.Row{User: "u", Category: "food", Amount: "10"},
		core.Row{User: "u", Category: "Food", Amount: "20"},
		core.Row{User: "u", Category: "travel", Amount: "5"},
	)
	got, err := e.CategoryTotal(context.Background(), "u", "food")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("10")))

	got, err = e.CategoryTotal(context.Background(), "u", "groceries")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTotalSpentIncludesRowsWithoutTimestamp(t *testing.T) {
	e := newEngine(
		core.Row{User: "u", Category: "food", Amount: "10", Timestamp: "2020-01-01T00:00:00Z"},
		core.Row{User: "u", Category: "food", Amount: "15"},
		core.Row{User: "u", Category: "food", Amount: ""},
		core.Row{User: "x", Category: "food", Amount: "100"},
	)
	got, err := e.TotalSpent(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("25")))
}

func TestReadErrorsPropagate(t *testing.T) {
	store := memory.New()
	store.ReadErr = errors.New("quota exceeded")
	e := New(store)

	_, err := e.TotalToday(context.Background(), "u")
	assert.ErrorContains(t, err, "quota exceeded")
	_, err = e.FullSummary(context.Background(), "u")
	assert.ErrorContains(t, err, "full summary")
	_, err = e.CategoryTotal(context.Background(), "u", "food")
	assert.Error(t, err)
	_, err = e.TotalSpent(context.Background(), "u")
	assert.ErrorContains(t, err, "total spent")
}
