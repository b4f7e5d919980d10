// Command budgetbot runs the chat expense tracker and its offline tools.
package main

import (
	"os"

	"budgetbot/internal/cli"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "budgetbot",
		Short: "Chat-driven expense tracker backed by a spreadsheet.",
		Long: `budgetbot logs expenses typed in chat ("200 swiggy"), answers
spending questions and warns when a user nears their budget.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				cli.LoadEnvFile(envFile)
				return
			}
			cli.LoadEnvFile()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(newServeCmd(), newClassifyCmd(), newExportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
