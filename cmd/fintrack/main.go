package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every fintrack command, grouped as shown by help.
func register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&accountAddCmd{}, "accounts")
	c.Register(&accountEditCmd{}, "accounts")
	c.Register(&accountDeleteCmd{}, "accounts")
	c.Register(&accountRepairCmd{}, "accounts")

	c.Register(&incomeCmd{}, "transactions")
	c.Register(&expenseCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&txEditCmd{}, "transactions")
	c.Register(&txDeleteCmd{}, "transactions")
	c.Register(&transfersCmd{}, "transactions")

	c.Register(&budgetsCmd{}, "planning")
	c.Register(&budgetAddCmd{}, "planning")
	c.Register(&budgetEditCmd{}, "planning")
	c.Register(&budgetDeleteCmd{}, "planning")
	c.Register(&remindCmd{}, "planning")
	c.Register(&planCmd{}, "planning")
	c.Register(&ideaCmd{}, "planning")
	c.Register(&plannerListCmd{}, "planning")
	c.Register(&plannerDeleteCmd{}, "planning")
	c.Register(&currencyCmd{}, "planning")

	c.Register(&dashboardCmd{}, "reports")
	c.Register(&trendCmd{}, "reports")
	c.Register(&suggestionsCmd{}, "reports")
	c.Register(&upcomingCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&exportCmd{}, "data")
	c.Register(&clearCmd{}, "data")
	c.Register(&infoCmd{}, "data")
}
