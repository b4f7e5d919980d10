package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	validGateways   = []string{"discord", "telegram"}
	validBackends   = []string{"sheets", "memory", "sqlite"}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
)

type Config struct {
	// Chat gateway
	Gateway             string
	DiscordToken        string
	TelegramToken       string
	TelegramPollTimeout int

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed file (tab separated, optional)
	MemoryDataFile string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Bot state
	BudgetFile     string
	CategoriesFile string
	CurrencySymbol string

	// AMQP (empty URL disables events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Health server (empty disables it)
	HealthAddr string

	// Logging
	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Gateway:             strings.ToLower(getEnv("GATEWAY", "discord")),
		DiscordToken:        getEnv("DISCORD_TOKEN", os.Getenv("CLIENT_TOKEN")),
		TelegramToken:       getEnv("TELEGRAM_TOKEN", ""),
		TelegramPollTimeout: getEnvInt("TELEGRAM_POLL_TIMEOUT", 60),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", "sheets")),

		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/budgetbot.db"),
		MemoryDataFile: getEnv("MEMORY_DATA_FILE", ""),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "credentials.json")),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		BudgetFile:     getEnv("BUDGET_FILE", "./budgets.json"),
		CategoriesFile: getEnv("CATEGORIES_FILE", "categories.yaml"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetbot"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_archive"),

		HealthAddr: getEnv("HEALTH_ADDR", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg
}

// Validate checks everything except the chat gateway, so offline commands
// can run without a bot token.
func (c *Config) Validate() error {
	return joinErrors(c.validateCommon())
}

// ValidateServe additionally checks the chat gateway settings.
func (c *Config) ValidateServe() error {
	errors := c.validateCommon()

	if !slices.Contains(validGateways, c.Gateway) {
		errors = append(errors, fmt.Sprintf("invalid gateway '%s': must be one of %v", c.Gateway, validGateways))
	}
	switch c.Gateway {
	case "discord":
		if c.DiscordToken == "" {
			errors = append(errors, "DISCORD_TOKEN (or CLIENT_TOKEN) is required for the discord gateway")
		}
	case "telegram":
		if c.TelegramToken == "" {
			errors = append(errors, "TELEGRAM_TOKEN is required for the telegram gateway")
		}
		if c.TelegramPollTimeout < 1 || c.TelegramPollTimeout > 600 {
			errors = append(errors, fmt.Sprintf("invalid telegram poll timeout %d: must be between 1 and 600 seconds", c.TelegramPollTimeout))
		}
	}

	if c.HealthAddr != "" {
		if _, port, err := net.SplitHostPort(c.HealthAddr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid health address '%s': %v", c.HealthAddr, err))
		} else if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
			errors = append(errors, fmt.Sprintf("invalid health port '%s': must be between 0 and 65535", port))
		}
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	return joinErrors(errors)
}

func (c *Config) validateCommon() []string {
	var errors []string

	// Validate data backend
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
		if c.GoogleServiceAccountJSON == "" {
			if c.GoogleServiceAccountFile == "" {
				errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets backend")
			} else if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BudgetFile == "" {
		errors = append(errors, "budget file path cannot be empty")
	}
	if c.CurrencySymbol == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	return errors
}

func joinErrors(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
