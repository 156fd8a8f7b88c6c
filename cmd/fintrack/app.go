package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/lifecycle"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// app is everything a command needs, opened once per invocation.
type app struct {
	env       *cli.Env
	logger    *log.Logger
	ledger    *services.LedgerService
	planner   *services.PlannerService
	lifecycle *lifecycle.Manager
	insights  *insights.Engine
}

func openApp(ctx context.Context) (*app, error) {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	env, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{services.WithPublisher(env.Publisher), services.WithLogger(logger)}
	return &app{
		env:     env,
		logger:  logger,
		ledger:  services.NewLedgerService(env.Store, opts...),
		planner: services.NewPlannerService(env.Store, opts...),
		lifecycle: lifecycle.New(env.Store, services.NewID,
			lifecycle.WithPublisher(env.Publisher),
			lifecycle.WithLogger(logger),
			lifecycle.WithLocation(env.Location)),
		insights: insights.NewEngine(env.Store),
	}, nil
}

// run opens the app, runs fn and closes the app, reporting any error on
// stderr the way every command does.
func run(ctx context.Context, fn func(*app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	err = fn(a)
	if cerr := a.env.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// today returns the current date, used when -d is omitted.
func today() core.Date {
	return core.DateOf(time.Now())
}

// parseDate reads a -d flag value, defaulting to today.
func parseDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return today(), nil
	}
	return core.ParseDate(s)
}

// parseAmount reads a strictly positive amount flag.
func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(s)
	if err != nil {
		return decimal.Zero, usageError("-%s must be a positive amount, got %q", name, s)
	}
	return d, nil
}

// printMarkdown renders md for the terminal, falling back to plain text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
