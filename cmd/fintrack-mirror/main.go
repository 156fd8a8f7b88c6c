package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting fintrack-mirror", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	env, err := cli.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err)
		os.Exit(1)
	}
	defer env.Close()

	writer, err := newWriter(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	mirror := worker.NewMirrorWorker(env.Store, writer, logger)

	caches := cache.NewManager()
	caches.Register(mirror.Caches()...)
	caches.OnClean(func(n int) {
		logger.Debug("Expired insight cache entries removed", log.FieldCount, n)
	})
	caches.StartCleanup(cfg.CacheCleanupInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, caches.Stop)

	if cfg.SyncOnStartup {
		// Don't exit - the periodic sync will retry
		if err := mirror.StartupSync(ctx); err != nil {
			logger.Error("Failed startup sync", log.FieldError, err)
		}
	}

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			if err := amqpClient.ConsumeLedgerEvents(ctx, mirror.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption failed", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("Skipping AMQP event consumption - no AMQP_URL provided")
	}

	go mirror.RunPeriodic(ctx, cfg.SyncInterval)

	cli.WaitForShutdown(ctx, done)
	synced, last := mirror.Stats()
	logger.Info("Mirror stopped", log.FieldOperation, log.OpShutdown, log.FieldCount, synced, "last_sync", last)
}

// newWriter picks Google Sheets when a spreadsheet is configured and an
// in-process mirror otherwise.
func newWriter(cfg *config.Config, logger *log.Logger) (sheets.SnapshotWriter, error) {
	if !cfg.MirrorEnabled() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, mirroring in memory")
		return memory.New(), nil
	}
	client, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", log.FieldSheetsRef, cfg.GoogleSpreadsheetID)
	return client, nil
}
