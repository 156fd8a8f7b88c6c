package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/services"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `fintrack accounts

  Lists every account with its balance and the total across accounts.
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		d := a.env.Store.Snapshot()
		printMarkdown(accountsMarkdown(d.Accounts, insights.TotalAccountBalance(d), d.Settings.DefaultCurrency))
		return nil
	})
}

type accountAddCmd struct {
	name     string
	kind     string
	currency string
	balance  string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "create an account" }
func (*accountAddCmd) Usage() string {
	return `fintrack account-add -name <name> [-type <type>] [-currency <code>] [-balance <amount>]

  Creates an account. Types: checking, savings, cash, crypto, investment.
  The currency defaults to the default currency, the balance to zero.
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name")
	f.StringVar(&c.kind, "type", string(core.Checking), "Account type")
	f.StringVar(&c.currency, "currency", "", "Currency code")
	f.StringVar(&c.balance, "balance", "0", "Opening balance")
}

func (c *accountAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	balance, err := core.ParseBalance(c.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -balance %q is not a number\n", c.balance)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		acc, err := a.ledger.AddAccount(ctx, services.AccountInput{
			Name:     c.name,
			Type:     core.AccountType(c.kind),
			Currency: c.currency,
			Balance:  balance,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created account %s (%s)\n", acc.Name, acc.ID)
		return nil
	})
}

type accountEditCmd struct {
	id       string
	name     string
	kind     string
	currency string
	balance  string
}

func (*accountEditCmd) Name() string     { return "account-edit" }
func (*accountEditCmd) Synopsis() string { return "change an account" }
func (*accountEditCmd) Usage() string {
	return `fintrack account-edit -id <id> [-name <name>] [-type <type>] [-currency <code>] [-balance <amount>]

  Updates an account. Omitted flags keep their current value. Setting the
  balance overwrites it directly.
`
}

func (c *accountEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account id")
	f.StringVar(&c.name, "name", "", "New name")
	f.StringVar(&c.kind, "type", "", "New type")
	f.StringVar(&c.currency, "currency", "", "New currency code")
	f.StringVar(&c.balance, "balance", "", "New balance")
}

func (c *accountEditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		d := a.env.Store.Snapshot()
		i := d.AccountIndex(c.id)
		if i < 0 {
			return &core.NotFoundError{Kind: "account", ID: c.id}
		}
		cur := d.Accounts[i]
		in := services.AccountInput{
			Name:     orFlag(c.name, cur.Name),
			Type:     core.AccountType(orFlag(c.kind, string(cur.Type))),
			Currency: orFlag(c.currency, cur.Currency),
			Balance:  cur.Balance,
		}
		if c.balance != "" {
			b, err := core.ParseBalance(c.balance)
			if err != nil {
				return usageError("-balance %q is not a number", c.balance)
			}
			in.Balance = b
		}
		acc, err := a.ledger.UpdateAccount(ctx, c.id, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated account %s\n", acc.Name)
		return nil
	})
}

type accountDeleteCmd struct {
	id string
}

func (*accountDeleteCmd) Name() string     { return "account-delete" }
func (*accountDeleteCmd) Synopsis() string { return "delete an account" }
func (*accountDeleteCmd) Usage() string {
	return `fintrack account-delete -id <id>

  Deletes an account. Its transactions and transfers are kept.
`
}

func (c *accountDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account id")
}

func (c *accountDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if err := a.ledger.DeleteAccount(ctx, c.id); err != nil {
			return err
		}
		fmt.Println("Account deleted")
		return nil
	})
}

type accountRepairCmd struct{}

func (*accountRepairCmd) Name() string { return "account-repair" }
func (*accountRepairCmd) Synopsis() string {
	return "give accounts without a currency the default currency"
}
func (*accountRepairCmd) Usage() string {
	return `fintrack account-repair

  Fixes accounts saved without a currency by assigning the default one.
`
}
func (*accountRepairCmd) SetFlags(*flag.FlagSet) {}

func (*accountRepairCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		n, err := a.ledger.RepairAccounts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Repaired %d account(s)\n", n)
		return nil
	})
}

func orFlag(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
