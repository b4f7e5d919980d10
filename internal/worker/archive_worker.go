// Package worker consumes expense events and mirrors them into the local
// SQLite archive.
package worker

import (
	"context"
	"fmt"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
	"budgetbot/internal/log"
)

// Archive stores an expense under an idempotency key.
type Archive interface {
	Archive(ctx context.Context, eventID string, e core.Expense) (bool, error)
}

// ArchiveWorker writes every expense.logged event to an Archive.
type ArchiveWorker struct {
	archive Archive
	logger  *log.Logger
}

func NewArchiveWorker(archive Archive, logger *log.Logger) *ArchiveWorker {
	if logger == nil {
		logger = log.Default(log.ComponentWorker)
	}
	return &ArchiveWorker{
		archive: archive,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExpenseLogged is the consumer callback. A returned error causes the
// message to be requeued, so payload errors are logged and swallowed.
func (w *ArchiveWorker) HandleExpenseLogged(ctx context.Context, msg *amqp.ExpenseLoggedMessage) error {
	e, err := msg.Expense()
	if err != nil {
		w.logger.ErrorContext(ctx, "Dropping invalid expense event",
			"event_id", msg.EventID,
			log.FieldError, err)
		return nil
	}

	stored, err := w.archive.Archive(ctx, msg.EventID, e)
	if err != nil {
		return fmt.Errorf("archive expense: %w", err)
	}
	if !stored {
		return nil
	}

	w.logger.InfoContext(ctx, "Expense archived",
		"event_id", msg.EventID,
		log.FieldUser, e.User,
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount.String())
	return nil
}

// Consumer delivers events to a handler until ctx is done.
type Consumer interface {
	ConsumeExpenseLogged(ctx context.Context, handler func(context.Context, *amqp.ExpenseLoggedMessage) error) error
}

// Run consumes events until ctx is cancelled. Cancellation is not an error.
func (w *ArchiveWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Archive worker started", log.FieldOperation, log.OpStartup)
	err := c.ConsumeExpenseLogged(ctx, w.HandleExpenseLogged)
	if err != nil && ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Archive worker stopped", log.FieldOperation, log.OpShutdown)
		return nil
	}
	return err
}
