package router

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		content string
		want    Intent
	}{
		{"how much did i spend today", IntentToday},
		{"Hey, HOW MUCH DID I SPEND TODAY?", IntentToday},
		{"!summary", IntentSummary},
		{"  !SUMMARY  ", IntentSummary},
		{"!summary please", IntentExpense},
		{"!help", IntentHelp},
		{"!setbudget 5000", IntentSetBudget},
		{"!SetBudget", IntentSetBudget},
		{"!deletebudget", IntentDeleteBudget},
		{"!resetbudget now", IntentDeleteBudget},
		{"how much did i spend on food", IntentCategory},
		{"200 swiggy", IntentExpense},
		{"", IntentExpense},
	}
	for _, tt := range tests {
		if got := Detect(tt.content); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestCategoryArg(t *testing.T) {
	tests := map[string]string{
		"how much did i spend on Food":     "food",
		"how much did i spend on  travel ": "travel",
		"how much did i spend on":          "",
		"how much did i spend onfood":      "",
	}
	for in, want := range tests {
		if got := categoryArg(in); got != want {
			t.Errorf("categoryArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBudgetArg(t *testing.T) {
	if got := budgetArg("!setbudget  5000 extra"); got != "5000" {
		t.Errorf("budgetArg = %q, want 5000", got)
	}
	if got := budgetArg("!setbudget"); got != "" {
		t.Errorf("budgetArg = %q, want empty", got)
	}
}
