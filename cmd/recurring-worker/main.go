package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tirelire/internal/amqp"
	"tirelire/internal/backend"
	"tirelire/internal/config"
	"tirelire/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateGateway(ctx, backend.Config{
		Type:         cfg.DataBackend,
		SnapshotPath: cfg.SnapshotPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize gateway", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Gateway cleanup failed", "error", err)
			}
		}()
	}

	// Initialize AMQP client so materialized transactions reach the export
	// pipeline (optional)
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without eventing", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	service, err := services.NewLedgerService(ctx, result.Gateway, amqpClient)
	if err != nil {
		logger.Error("Failed to initialize ledger service", "error", err)
		os.Exit(1)
	}

	processor := services.NewRecurringProcessor(service, cfg.RecurringInterval)
	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend.String())

	if err := processor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recurring processor failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
