// Package router interprets inbound chat messages and composes replies.
package router

import (
	"context"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/gateway"
	"budgetbot/internal/log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// ExpenseParser turns a message into a classified expense.
	ExpenseParser interface {
		Expense(user, text string, now time.Time) (core.Expense, bool)
	}

	// ExpenseLogger appends an expense to the table.
	ExpenseLogger interface {
		LogExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// Totals answers aggregate queries over the table.
	Totals interface {
		TotalToday(ctx context.Context, user string) (decimal.Decimal, error)
		FullSummary(ctx context.Context, user string) (core.Summary, error)
		CategoryTotal(ctx context.Context, user, category string) (decimal.Decimal, error)
		TotalSpent(ctx context.Context, user string) (decimal.Decimal, error)
	}

	// Budgets holds per-user ceilings.
	Budgets interface {
		Set(user string, amount decimal.Decimal) error
		Delete(user string) bool
		EvaluateThreshold(user string, totalSpent decimal.Decimal) (decimal.Decimal, bool)
	}
)

// Deps are the collaborators a Router dispatches to.
type Deps struct {
	Parser   ExpenseParser
	Expenses ExpenseLogger
	Totals   Totals
	Budgets  Budgets
}

// Router dispatches each message to exactly one intent and returns at most
// one reply.
type Router struct {
	Deps
	symbol string
	logger *log.Logger
	now    func() time.Time
}

var _ gateway.Handler = (*Router)(nil)

// Option configures a Router.
type Option func(*Router)

// WithCurrencySymbol sets the glyph prefixed to amounts in replies.
func WithCurrencySymbol(s string) Option {
	return func(r *Router) { r.symbol = s }
}

// WithLogger sets the router's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) { r.logger = l.WithComponent(log.ComponentRouter) }
}

// WithClock overrides the clock used to timestamp expenses.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

func New(d Deps, opts ...Option) *Router {
	r := &Router{
		Deps:   d,
		symbol: core.DefaultCurrencySymbol,
		logger: log.Default(log.ComponentRouter),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle implements gateway.Handler.
func (r *Router) Handle(ctx context.Context, m gateway.Message) (string, bool) {
	if m.IsBot {
		return "", false
	}

	user := m.User()
	logger := r.logger.With(log.NewFields().WithMessage(uuid.NewString(), user, m.ChannelID).ToSlice()...)
	ctx = log.IntoContext(ctx, logger)

	intent := Detect(m.Content)
	logger.DebugContext(ctx, "Handling message", log.FieldIntent, intent.String())

	switch intent {
	case IntentToday:
		total, err := r.Totals.TotalToday(ctx, user)
		if err != nil {
			return r.readFailed(ctx, intent, err)
		}
		return r.todayReply(total), true

	case IntentSummary:
		summary, err := r.Totals.FullSummary(ctx, user)
		if err != nil {
			return r.readFailed(ctx, intent, err)
		}
		return r.summaryReply(summary), true

	case IntentHelp:
		return helpText, true

	case IntentSetBudget:
		amount, err := core.ParseAmount(budgetArg(m.Content))
		if err != nil {
			return replyInvalidBudget, true
		}
		if err := r.Budgets.Set(user, amount); err != nil {
			return replyInvalidBudget, true
		}
		logger.InfoContext(ctx, "Budget set", log.FieldCeiling, amount.String())
		return r.budgetSetReply(amount), true

	case IntentDeleteBudget:
		if r.Budgets.Delete(user) {
			logger.InfoContext(ctx, "Budget deleted")
			return replyBudgetDeleted, true
		}
		return replyNoBudget, true

	case IntentCategory:
		category := categoryArg(m.Content)
		if category == "" {
			return replyCategoryUsage, true
		}
		total, err := r.Totals.CategoryTotal(ctx, user, category)
		if err != nil {
			return r.readFailed(ctx, intent, err)
		}
		return r.categoryReply(category, total), true

	default:
		return r.logExpense(ctx, logger, user, m.Content)
	}
}

func (r *Router) logExpense(ctx context.Context, logger *log.Logger, user, content string) (string, bool) {
	e, ok := r.Parser.Expense(user, content, r.now())
	if !ok {
		return "", false
	}

	ref, err := r.Expenses.LogExpense(ctx, e)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to log expense",
			log.NewFields().WithExpense(user, e.Category, e.Amount.String()).WithError(err).ToSlice()...)
		return replyLogFailed, true
	}
	logger.InfoContext(ctx, "Expense logged",
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount.String(),
		log.FieldRowRef, ref)

	reply := r.loggedReply(e)

	total, err := r.Totals.TotalSpent(ctx, user)
	if err != nil {
		// The append went through; only the advisory is lost.
		logger.WarnContext(ctx, "Failed to compute total for budget check", log.FieldError, err)
		return reply, true
	}
	if ceiling, over := r.Budgets.EvaluateThreshold(user, total); over {
		logger.InfoContext(ctx, "Budget threshold exceeded",
			log.FieldCeiling, ceiling.String(),
			log.FieldTotal, total.String())
		reply += "\n" + r.thresholdReply(ceiling, total)
	}
	return reply, true
}

func (r *Router) readFailed(ctx context.Context, intent Intent, err error) (string, bool) {
	log.FromContext(ctx).ErrorContext(ctx, "Failed to read expenses",
		log.FieldIntent, intent.String(),
		log.FieldOperation, log.OpRead,
		log.FieldError, err)
	return replyReadFailed, true
}
