// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tirelire/internal/backend"
)

type Config struct {
	Port int

	// Persistence
	DataBackend  backend.Type
	SnapshotPath string
	SQLiteDBPath string

	// Eventing (optional, empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Recurring processing
	RecurringInterval time.Duration

	// Google Sheets export (export worker only)
	ExportSpreadsheetID string
	ExportSheetName     string
}

func Load() *Config {
	return &Config{
		Port:                getEnvInt("PORT", 8080),
		DataBackend:         backend.Type(getEnv("DATA_BACKEND", "file")),
		SnapshotPath:        getEnv("SNAPSHOT_PATH", "data/budget.json"),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "data/budget.db"),
		AMQPURL:             getEnv("AMQP_URL", ""),
		AMQPExchange:        getEnv("AMQP_EXCHANGE", "ledger_events"),
		AMQPQueue:           getEnv("AMQP_QUEUE", "ledger_export"),
		RecurringInterval:   getEnvDuration("RECURRING_INTERVAL", 6*time.Hour),
		ExportSpreadsheetID: getEnv("EXPORT_SPREADSHEET_ID", ""),
		ExportSheetName:     getEnv("EXPORT_SHEET_NAME", "Transactions"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if !c.DataBackend.IsValid() {
		errs = append(errs, fmt.Sprintf("DATA_BACKEND must be %q or %q, got %q",
			backend.FileBackend, backend.SQLiteBackend, c.DataBackend))
	}
	if c.DataBackend == backend.FileBackend && c.SnapshotPath == "" {
		errs = append(errs, "SNAPSHOT_PATH must not be empty")
	}
	if c.DataBackend == backend.SQLiteBackend && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLITE_DB_PATH must not be empty")
	}
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP_EXCHANGE must not be empty when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP_QUEUE must not be empty when AMQP_URL is set")
		}
	}
	if c.RecurringInterval <= 0 {
		errs = append(errs, "RECURRING_INTERVAL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
