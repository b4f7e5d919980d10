package main

import (
	"fmt"
	"strings"
	"time"

	"budgetbot/internal/classifier"
	"budgetbot/internal/config"
	"budgetbot/internal/core"
	"budgetbot/internal/parser"
	"budgetbot/internal/router"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "classify <message...>",
		Short: "Show how a chat message would be interpreted, without logging it",
		Example: `  budgetbot classify 200 swiggy
  budgetbot classify "spent 300 on dinner #date"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rulesFile == "" {
				rulesFile = config.Load().CategoriesFile
			}
			rules, err := classifier.LoadRules(rulesFile)
			if err != nil {
				return fmt.Errorf("load category rules: %w", err)
			}

			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if intent := router.Detect(text); intent != router.IntentExpense {
				fmt.Fprintf(out, "intent: %s\n", intent)
				return nil
			}

			e, ok := parser.New(classifier.New(rules)).Expense("cli", text, time.Now())
			if !ok {
				fmt.Fprintln(out, "not an expense")
				return nil
			}
			fmt.Fprintf(out, "intent: %s\namount: %s\ncategory: %s\ndescription: %s\n",
				router.IntentExpense, core.FormatMoney("", e.Amount), e.Category, e.RawText)
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesFile, "rules", "", "category rules YAML (default $CATEGORIES_FILE)")
	return cmd
}
