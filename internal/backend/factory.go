package backend

import (
	"context"
	"fmt"

	"budgetbot/internal/amqp"
	"budgetbot/internal/log"
	"budgetbot/internal/services"
	gsheet "budgetbot/internal/sheets/google"
	"budgetbot/internal/sheets/memory"
	"budgetbot/internal/storage"
)

// PublisherDialer opens an event publisher.
type PublisherDialer func(url, exchange, queue string, logger *log.Logger) (services.Publisher, error)

func dialAMQP(url, exchange, queue string, logger *log.Logger) (services.Publisher, error) {
	return amqp.NewClient(url, exchange, queue, logger)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	dial   PublisherDialer
}

// FactoryOption configures a DefaultFactory.
type FactoryOption func(*DefaultFactory)

// WithPublisherDialer replaces the AMQP dialer.
func WithPublisherDialer(d PublisherDialer) FactoryOption {
	return func(f *DefaultFactory) { f.dial = d }
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger, opts ...FactoryOption) Factory {
	if logger == nil {
		logger = log.Default(log.ComponentBackend)
	}
	f := &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		dial:   dialAMQP,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		table   Backend
		cleanup CleanupFunc
		err     error
	)
	switch config.Type {
	case SQLiteBackend:
		table, cleanup, err = f.createSQLiteBackend(config)
	case SheetsBackend:
		table, err = f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		table = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	publisher := f.createPublisher(config)
	expenseService := services.NewExpenseService(table, publisher, f.logger)

	return &BackendResult{
		Backend:  table,
		Expenses: expenseService,
		Cleanup: func() error {
			serviceErr := expenseService.Close()
			if cleanup != nil {
				if err := cleanup(); err != nil {
					return err
				}
			}
			return serviceErr
		},
	}, nil
}

// createPublisher is optional: a broker that cannot be reached disables
// events rather than the bot.
func (f *DefaultFactory) createPublisher(config Config) services.Publisher {
	if config.AMQPURL == "" {
		return nil
	}
	publisher, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return publisher
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (Backend, CleanupFunc, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (Backend, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
		Logger:          f.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleSheetName)
	return cli, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) Backend {
	store := memory.NewFromFile(config.MemoryDataFile)
	f.logger.Info("Initialized memory backend", "data_file", config.MemoryDataFile)
	return store
}
