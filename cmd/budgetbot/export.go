package main

import (
	"fmt"
	"io"
	"os"

	"budgetbot/internal/backend"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/export"
	"budgetbot/internal/log"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var user, outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's logged expenses as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig((*config.Config).Validate)
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg, cmd.ErrOrStderr())

			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			// Exports never publish events.
			bcfg.AMQPURL = ""
			res, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), bcfg)
			if err != nil {
				return err
			}
			defer res.Close()

			rows, err := res.Backend.ReadRows(cmd.Context())
			if err != nil {
				return fmt.Errorf("read expenses: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create %s: %w", outFile, err)
				}
				defer f.Close()
				w = f
			}

			n, err := export.WriteCSV(w, rows, user)
			if err != nil {
				return err
			}
			logger.Info("Export complete", log.FieldUser, user, "records", n, "file", outFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "username whose rows are exported (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
