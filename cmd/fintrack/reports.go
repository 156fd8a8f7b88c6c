package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"fintrack/internal/insights"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the financial overview" }
func (*dashboardCmd) Usage() string {
	return `fintrack dashboard

  Shows all-time totals, this month's metrics and what is due this week.
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		cur := a.env.Store.Snapshot().Settings.DefaultCurrency
		printMarkdown(dashboardMarkdown(
			a.insights.Dashboard(),
			a.insights.MonthMetrics(a.insights.CurrentMonth()),
			a.insights.Upcoming(),
			cur))
		return nil
	})
}

type trendCmd struct {
	months int
}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "show income and expenses per month" }
func (*trendCmd) Usage() string {
	return `fintrack trend [-n <months>]

  Shows the most recent months that have transactions, oldest first.
`
}

func (c *trendCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "n", insights.DefaultTrendMonths, "Number of months")
}

func (c *trendCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		cur := a.env.Store.Snapshot().Settings.DefaultCurrency
		printMarkdown(trendMarkdown(a.insights.Trend(c.months), cur))
		return nil
	})
}

type suggestionsCmd struct{}

func (*suggestionsCmd) Name() string     { return "suggestions" }
func (*suggestionsCmd) Synopsis() string { return "show spending suggestions for this month" }
func (*suggestionsCmd) Usage() string {
	return `fintrack suggestions
`
}
func (*suggestionsCmd) SetFlags(*flag.FlagSet) {}

func (*suggestionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(suggestionsMarkdown(a.insights.Suggestions()))
		return nil
	})
}

type upcomingCmd struct{}

func (*upcomingCmd) Name() string     { return "upcoming" }
func (*upcomingCmd) Synopsis() string { return "show reminders and planned expenses due this week" }
func (*upcomingCmd) Usage() string {
	return `fintrack upcoming
`
}
func (*upcomingCmd) SetFlags(*flag.FlagSet) {}

func (*upcomingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(upcomingMarkdown(a.insights.Upcoming()))
		return nil
	})
}
