// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/fintrack and cmd/fintrack-mirror.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// SetupLogger initializes structured logging at the given level, writing
// to stderr so command output on stdout stays clean. Returns the logger
// and sets it as the default logger.
func SetupLogger(level, component string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	logger := log.New(log.Config{
		Level:     lvl,
		Component: component,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Env bundles the store and publisher every binary works with.
type Env struct {
	Store     *store.Store
	Publisher events.Publisher
	// Location is where the data lives.
	Location string

	cleanups []backend.CleanupFunc
}

// Open builds the store backend and the event publisher described by cfg,
// then loads the store. A fresh install picks up DEFAULT_CURRENCY.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Env, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := store.ParseCommitPolicy(cfg.CommitPolicy)
	if err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	env := &Env{Location: res.Location}
	if res.Cleanup != nil {
		env.cleanups = append(env.cleanups, res.Cleanup)
	}

	pub, err := factory.CreatePublisher(ctx, bcfg)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Publisher = pub.Publisher
	if pub.Cleanup != nil {
		env.cleanups = append(env.cleanups, pub.Cleanup)
	}

	s, err := store.Open(ctx, res.Backend, store.WithCommitPolicy(policy), store.WithLogger(logger))
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	env.Store = s

	if err := applyDefaultCurrency(ctx, s, cfg.DefaultCurrency); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

// applyDefaultCurrency sets the configured currency on an empty ledger
// still using the built-in default, leaving a user's own choice alone.
func applyDefaultCurrency(ctx context.Context, s *store.Store, code string) error {
	if code == "" || !currency.Known(code) {
		return nil
	}
	snap := s.Snapshot()
	if len(snap.Transactions)+len(snap.Accounts) > 0 || snap.Settings.DefaultCurrency != core.DefaultCurrency {
		return nil
	}
	return s.Update(ctx, func(d *core.Data) error {
		d.Settings.DefaultCurrency = code
		return nil
	}, store.KeySettings)
}

// Close commits pending changes and releases every resource, in reverse
// order of acquisition.
func (e *Env) Close() error {
	var errs []error
	if e.Store != nil {
		if err := e.Store.Commit(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		if err := e.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.cleanups = nil
	return errors.Join(errs...)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
