package main

import (
	"context"
	"fmt"

	"budgetbot/internal/aggregate"
	"budgetbot/internal/backend"
	"budgetbot/internal/budget"
	"budgetbot/internal/classifier"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/gateway"
	"budgetbot/internal/gateway/discord"
	"budgetbot/internal/gateway/telegram"
	apphttp "budgetbot/internal/http"
	"budgetbot/internal/log"
	"budgetbot/internal/parser"
	"budgetbot/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to the chat gateway and start handling messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig((*config.Config).ValidateServe)
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg, nil)

			ctx, stop := cli.SignalContext(cmd.Context(), logger)
			defer stop()

			if err := serve(ctx, cfg, logger); err != nil {
				logger.Error("Bot stopped with error", log.FieldError, err)
				return err
			}
			logger.Info("Bot stopped", log.FieldOperation, log.OpShutdown)
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	rules, err := classifier.LoadRules(cfg.CategoriesFile)
	if err != nil {
		return fmt.Errorf("load category rules: %w", err)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	budgets := budget.Load(cfg.BudgetFile, logger)

	r := router.New(router.Deps{
		Parser:   parser.New(classifier.New(rules)),
		Expenses: res.Expenses,
		Totals:   aggregate.New(res.Backend),
		Budgets:  budgets,
	},
		router.WithCurrencySymbol(cfg.CurrencySymbol),
		router.WithLogger(logger))

	gw, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting budgetbot",
		log.FieldGateway, gw.Name(),
		"backend", cfg.DataBackend,
		"rules", len(rules),
		"events", cfg.AMQPURL != "")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gw.Run(gctx, r); err != nil {
			return fmt.Errorf("%s gateway: %w", gw.Name(), err)
		}
		return nil
	})

	if cfg.HealthAddr != "" {
		srv := apphttp.NewServer(cfg.HealthAddr, map[string]apphttp.Check{
			"table": func(ctx context.Context) error {
				_, err := res.Backend.ReadRows(ctx)
				return err
			},
		}, logger)
		g.Go(func() error { return srv.Run(gctx, cfg.ShutdownTimeout) })
	}

	return g.Wait()
}

func newGateway(cfg *config.Config, logger *log.Logger) (gateway.Gateway, error) {
	switch cfg.Gateway {
	case "discord":
		return discord.New(cfg.DiscordToken, logger)
	case "telegram":
		return telegram.New(cfg.TelegramToken, cfg.TelegramPollTimeout, logger)
	default:
		return nil, fmt.Errorf("unknown gateway %q", cfg.Gateway)
	}
}
