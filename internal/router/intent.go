package router

import "strings"

// Intent is what an inbound message asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentToday
	IntentSummary
	IntentHelp
	IntentSetBudget
	IntentDeleteBudget
	IntentCategory
	IntentExpense // candidate only; the expense parser has the final word
)

const (
	phraseToday    = "how much did i spend today"
	phraseCategory = "how much did i spend on"
	cmdSummary     = "!summary"
	cmdHelp        = "!help"
	cmdSetBudget   = "!setbudget"
	cmdDelete      = "!deletebudget"
	cmdReset       = "!resetbudget"
)

var intentNames = map[Intent]string{
	IntentNone:         "none",
	IntentToday:        "today",
	IntentSummary:      "summary",
	IntentHelp:         "help",
	IntentSetBudget:    "set_budget",
	IntentDeleteBudget: "delete_budget",
	IntentCategory:     "category",
	IntentExpense:      "expense",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// Detect returns the first matching intent for content. Checks run in a
// fixed order and the first hit wins, so e.g. "!summary" is never parsed as
// an expense.
func Detect(content string) Intent {
	lower := strings.ToLower(content)
	trimmed := strings.TrimSpace(lower)
	switch {
	case strings.Contains(lower, phraseToday):
		return IntentToday
	case trimmed == cmdSummary:
		return IntentSummary
	case trimmed == cmdHelp:
		return IntentHelp
	case strings.HasPrefix(trimmed, cmdSetBudget):
		return IntentSetBudget
	case strings.HasPrefix(trimmed, cmdDelete), strings.HasPrefix(trimmed, cmdReset):
		return IntentDeleteBudget
	case strings.HasPrefix(trimmed, phraseCategory):
		return IntentCategory
	default:
		return IntentExpense
	}
}

// categoryArg returns the text after the first "on " in the lowercased
// message, trimmed.
func categoryArg(content string) string {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, "on ")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(lower[idx+len("on "):])
}

// budgetArg returns the second whitespace-delimited token.
func budgetArg(content string) string {
	fields := strings.Fields(content)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
