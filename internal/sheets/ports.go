package sheets

import (
	"context"

	"budgetbot/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseAppender adds one row to the expense table.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// RowReader performs a range read of every data row (header excluded).
	RowReader interface {
		ReadRows(ctx context.Context) ([]core.Row, error)
	}

	// Table is the full surface the bot needs from the remote store.
	Table interface {
		ExpenseAppender
		RowReader
	}
)
