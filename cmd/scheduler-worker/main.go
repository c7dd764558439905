package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneta/internal/backend"
	"moneta/internal/config"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/services"
)

func main() {
	// .env is for local development; missing file is fine.
	_ = godotenv.Load()

	logger := applog.Setup("scheduler-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
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

	scheduler := services.NewScheduler(gateway)
	logger.Info("scheduler configured", "interval", cfg.SchedulerInterval)

	run := func() {
		reference := core.Today()
		results, err := scheduler.Process(ctx, reference)
		if err != nil {
			logger.Error("scheduling pass failed", applog.FieldError, err)
			return
		}
		fired, failed := 0, 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				failed++
				logger.Error("obligation failed",
					applog.FieldObligationID, res.ObligationID,
					"description", res.Description,
					applog.FieldError, res.Err)
			case res.Fired:
				fired++
				logger.Info("obligation fired",
					applog.FieldObligationID, res.ObligationID,
					"description", res.Description,
					"fire_date", res.FireDate)
			}
		}
		logger.Info("scheduling pass complete",
			"reference_date", reference,
			"checked", len(results),
			"fired", fired,
			"failed", failed)
	}

	// One pass at startup, then on every tick.
	run()

	ticker := time.NewTicker(cfg.SchedulerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler-worker stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
