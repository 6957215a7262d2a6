package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tirelire/internal/amqp"
	"tirelire/internal/backend"
	"tirelire/internal/config"
	"tirelire/internal/core"
	"tirelire/internal/export"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting export-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exporter, err := export.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}
	logger.Info("Sheets exporter initialized", "spreadsheet_id", cfg.ExportSpreadsheetID, "sheet", cfg.ExportSheetName)

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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	handler := func(event *amqp.LedgerEvent) error {
		return handleEvent(ctx, result.Gateway, exporter, event)
	}

	if err := amqpClient.ConsumeLedgerEvents(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// handleEvent exports the transaction referenced by the event. Deletions
// and goal completions carry no row to append and are acked as-is.
func handleEvent(ctx context.Context, gateway backend.Gateway, exporter *export.SheetsExporter, event *amqp.LedgerEvent) error {
	switch event.Kind {
	case amqp.EventTransactionCreated, amqp.EventRecurringMaterialized:
	default:
		slog.InfoContext(ctx, "Ignoring event kind", "kind", event.Kind)
		return nil
	}

	doc, err := gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	var tx *core.Transaction
	for _, t := range doc.Transactions {
		if t.ID == event.TransactionID {
			tx = t
			break
		}
	}
	if tx == nil {
		// Deleted between publish and consume; nothing to export.
		slog.WarnContext(ctx, "Transaction no longer present, skipping export",
			"transaction_id", event.TransactionID)
		return nil
	}

	categoryName := tx.Category
	if cat, ok := doc.Categories[tx.Category]; ok {
		categoryName = cat.Name
	}

	return exporter.AppendTransaction(ctx, *tx, categoryName)
}
