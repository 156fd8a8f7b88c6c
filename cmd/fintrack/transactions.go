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

type incomeCmd struct {
	account string
	amount  string
	source  string
	date    string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record income into an account" }
func (*incomeCmd) Usage() string {
	return `fintrack income -account <id> -amount <amount> -source <text> [-d <date>]

  Records an income and credits the account.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account id to credit")
	f.StringVar(&c.amount, "amount", "", "Amount received")
	f.StringVar(&c.source, "source", "", "Where the money came from")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *incomeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	date, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tx, err := a.ledger.PostIncome(ctx, services.IncomeInput{
			AccountID: c.account,
			Amount:    amount,
			Source:    c.source,
			Date:      date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded income %s (%s)\n", money(tx.Amount, tx.Currency), tx.ID)
		return nil
	})
}

type expenseCmd struct {
	category string
	item     string
	amount   string
	method   string
	account  string
	date     string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense" }
func (*expenseCmd) Usage() string {
	return `fintrack expense -item <text> -amount <amount> [-category <name>] [-method cash|card|online] [-account <id>] [-d <date>]

  Records an expense. Online payments debit the given account and fail when
  its balance is too low. Cash and card payments do not touch balances.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "other", "Expense category")
	f.StringVar(&c.item, "item", "", "What was bought")
	f.StringVar(&c.amount, "amount", "", "Amount paid")
	f.StringVar(&c.method, "method", string(core.PayCash), "Payment method")
	f.StringVar(&c.account, "account", "", "Account id, required for online payments")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *expenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	date, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		tx, err := a.ledger.PostExpense(ctx, services.ExpenseInput{
			Category:      c.category,
			Item:          c.item,
			Amount:        amount,
			Date:          date,
			PaymentMethod: core.PaymentMethod(c.method),
			BankAccountID: c.account,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded expense %s (%s)\n", money(tx.Amount, tx.Currency), tx.ID)
		return nil
	})
}

type transferCmd struct {
	from        string
	to          string
	amount      string
	description string
	date        string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `fintrack transfer -from <id> -to <id> -amount <amount> [-desc <text>] [-d <date>]

  Moves money between accounts. The amount is taken at face value; no
  currency conversion happens.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account id")
	f.StringVar(&c.to, "to", "", "Destination account id")
	f.StringVar(&c.amount, "amount", "", "Amount to move")
	f.StringVar(&c.description, "desc", "", "Description, defaults to \"Transfer\"")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var date core.Date
	if c.date != "" {
		if date, err = core.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return run(ctx, func(a *app) error {
		t, err := a.ledger.Transfer(ctx, services.TransferInput{
			FromAccountID: c.from,
			ToAccountID:   c.to,
			Amount:        amount,
			Description:   c.description,
			Date:          date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Transferred %s from %s to %s\n", t.Amount.StringFixed(2), t.FromAccountName, t.ToAccountName)
		return nil
	})
}

type txCmd struct {
	filter string
	head   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `fintrack tx [-filter all|income|expense] [-head <n>]

  Lists transactions, newest first.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "filter", "all", "Transaction type to show")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := insights.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		txs := insights.FilterTransactions(a.env.Store.Snapshot(), filter)
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		printMarkdown(transactionsMarkdown(txs))
		return nil
	})
}

type txEditCmd struct {
	id       string
	title    string
	amount   string
	date     string
	category string
}

func (*txEditCmd) Name() string     { return "tx-edit" }
func (*txEditCmd) Synopsis() string { return "change a transaction" }
func (*txEditCmd) Usage() string {
	return `fintrack tx-edit -id <id> [-title <text>] [-amount <amount>] [-d <date>] [-category <name>]

  Changes a transaction's record. Account balances are not adjusted.
  Omitted flags keep their current value.
`
}

func (c *txEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id")
	f.StringVar(&c.title, "title", "", "Income source or expense item")
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.date, "d", "", "New date (YYYY-MM-DD)")
	f.StringVar(&c.category, "category", "", "New category (expenses only)")
}

func (c *txEditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		d := a.env.Store.Snapshot()
		i := d.TransactionIndex(c.id)
		if i < 0 {
			return &core.NotFoundError{Kind: "transaction", ID: c.id}
		}
		cur := d.Transactions[i]
		edit := services.TransactionEdit{
			Title:    orFlag(c.title, cur.Title()),
			Amount:   cur.Amount,
			Date:     cur.Date,
			Category: orFlag(c.category, cur.Category()),
		}
		if c.amount != "" {
			amount, err := parseAmount("amount", c.amount)
			if err != nil {
				return err
			}
			edit.Amount = amount
		}
		if c.date != "" {
			date, err := core.ParseDate(c.date)
			if err != nil {
				return usageError("%v", err)
			}
			edit.Date = date
		}
		if _, err := a.ledger.EditTransaction(ctx, c.id, edit); err != nil {
			return err
		}
		fmt.Println("Transaction updated")
		return nil
	})
}

type txDeleteCmd struct {
	id string
}

func (*txDeleteCmd) Name() string     { return "tx-delete" }
func (*txDeleteCmd) Synopsis() string { return "delete a transaction" }
func (*txDeleteCmd) Usage() string {
	return `fintrack tx-delete -id <id>

  Deletes a transaction record. Account balances are not adjusted.
`
}

func (c *txDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id")
}

func (c *txDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if err := a.ledger.DeleteTransaction(ctx, c.id); err != nil {
			return err
		}
		fmt.Println("Transaction deleted")
		return nil
	})
}

type transfersCmd struct {
	n int
}

func (*transfersCmd) Name() string     { return "transfers" }
func (*transfersCmd) Synopsis() string { return "show recent transfers" }
func (*transfersCmd) Usage() string {
	return `fintrack transfers [-n <count>]

  Lists the most recent transfers, latest first.
`
}

func (c *transfersCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", insights.DefaultRecentTransfers, "Number of transfers to show")
}

func (c *transfersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(transfersMarkdown(insights.RecentTransfers(a.env.Store.Snapshot(), c.n)))
		return nil
	})
}
