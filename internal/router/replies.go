package router

import (
	"fmt"
	"strings"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
)

const (
	replyNoRecords     = "No spending records found."
	replyInvalidBudget = "❌ Invalid budget amount. Usage: `!setbudget 5000`"
	replyBudgetDeleted = "🗑️ Your budget has been deleted."
	replyNoBudget      = "⚠️ You don't have a budget set."
	replyCategoryUsage = "Usage: `how much did i spend on <category>`"
	replyLogFailed     = "There was an error logging that expense."
	replyReadFailed    = "⚠️ I couldn't read your expenses right now. Please try again later."
)

const helpText = "Here's what I understand:\n" +
	"- `200 swiggy` or `spent 300 on food #dining` logs an expense\n" +
	"- `how much did i spend today`\n" +
	"- `how much did i spend on <category>`\n" +
	"- `!summary` shows spending per category\n" +
	"- `!setbudget <amount>` sets your budget\n" +
	"- `!deletebudget` or `!resetbudget` clears it"

func (r *Router) money(d decimal.Decimal) string {
	return core.FormatMoney(r.symbol, d)
}

func (r *Router) todayReply(total decimal.Decimal) string {
	return fmt.Sprintf("You spent %s today.", r.money(total))
}

func (r *Router) summaryReply(s core.Summary) string {
	if len(s) == 0 {
		return replyNoRecords
	}
	var b strings.Builder
	b.WriteString("You spent:")
	for _, c := range s {
		fmt.Fprintf(&b, "\n- %s on %s", r.money(c.Amount), c.Name)
	}
	return b.String()
}

func (r *Router) budgetSetReply(amount decimal.Decimal) string {
	return fmt.Sprintf("✅ Budget of %s has been set for you.", r.money(amount))
}

func (r *Router) categoryReply(category string, total decimal.Decimal) string {
	return fmt.Sprintf("You spent %s on %q.", r.money(total), category)
}

func (r *Router) loggedReply(e core.Expense) string {
	return fmt.Sprintf("Logged %s for %q", r.money(e.Amount), e.Category)
}

func (r *Router) thresholdReply(ceiling, total decimal.Decimal) string {
	return fmt.Sprintf("⚠️ Heads up! You've spent more than 80%% of your budget (%s). Total so far: %s.",
		r.money(ceiling), r.money(total))
}
