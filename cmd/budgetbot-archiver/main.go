// Command budgetbot-archiver mirrors expense.logged events into SQLite.
package main

import (
	"context"
	"errors"
	"os"

	"budgetbot/internal/amqp"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/log"
	"budgetbot/internal/storage"
	"budgetbot/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig(func(c *config.Config) error {
		if c.AMQPURL == "" {
			return errors.New("AMQP_URL is required for the archiver")
		}
		if c.SQLiteDBPath == "" {
			return errors.New("SQLITE_DB_PATH is required for the archiver")
		}
		return nil
	})
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, nil)
	logger.Info("Starting budgetbot-archiver")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	if err := worker.NewArchiveWorker(repo, logger).Run(ctx, client); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Archiver stopped")
}
