package services

import (
	"context"
	"fmt"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/sheets"
)

// Publisher announces appended expenses to downstream consumers.
type Publisher interface {
	PublishExpenseLogged(ctx context.Context, e core.Expense, rowRef string) error
	Close() error
}

// ExpenseService appends expenses to the table and publishes an event for
// each successful append.
type ExpenseService struct {
	table     sheets.ExpenseAppender
	publisher Publisher
	logger    *log.Logger
}

// NewExpenseService builds the service. publisher may be nil.
func NewExpenseService(table sheets.ExpenseAppender, publisher Publisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Default(log.ComponentExpense)
	}
	return &ExpenseService{
		table:     table,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// LogExpense appends e and returns the table's row reference.
func (s *ExpenseService) LogExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validate expense: %w", err)
	}

	// The table is the source of truth; the event is best effort.
	ref, err := s.table.Append(ctx, e)
	if err != nil {
		return "", fmt.Errorf("append expense: %w", err)
	}

	if s.publisher == nil {
		return ref, nil
	}
	if err := s.publisher.PublishExpenseLogged(ctx, e, ref); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldRowRef, ref,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err)
	}

	return ref, nil
}

// Close releases the publisher.
func (s *ExpenseService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
