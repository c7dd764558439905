package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneta/internal/amqp"
	"moneta/internal/backend"
	"moneta/internal/config"
	"moneta/internal/export"
	"moneta/internal/export/google"
	"moneta/internal/export/memory"
	applog "moneta/internal/log"
	"moneta/internal/worker"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := applog.Setup("export-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required, the export worker consumes transaction events")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, err := backend.OpenGateway(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer gateway.Close()

	var writer export.RowWriter
	switch cfg.ExportTarget {
	case "sheets":
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("exporting to Google Sheets")
	default:
		writer = memory.New()
		logger.Info("exporting to in-memory writer", "target", cfg.ExportTarget)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to AMQP broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	exporter := worker.NewExportWorker(gateway, writer)

	logger.Info("consuming transaction events", "queue", cfg.AMQPQueue)
	err = client.Consume(ctx, func(event *amqp.TransactionEvent) error {
		return exporter.HandleEvent(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("event consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("export-worker stopped")
}
