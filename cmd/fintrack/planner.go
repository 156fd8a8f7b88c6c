package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/services"
)

type budgetsCmd struct {
	month string
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "show budget utilization for a month" }
func (*budgetsCmd) Usage() string {
	return `fintrack budgets [-m <YYYY-MM>]

  Shows every budget with its spend, remaining amount and status, plus
  the overall utilization. Defaults to the current month.
`
}

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month (YYYY-MM), defaults to the current month")
}

func (c *budgetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		month := a.insights.CurrentMonth()
		if c.month != "" {
			m, err := core.ParseYearMonth(c.month)
			if err != nil {
				return usageError("%v", err)
			}
			month = m
		}
		cur := a.env.Store.Snapshot().Settings.DefaultCurrency
		printMarkdown(budgetsMarkdown(a.insights.BudgetSummary(month), cur))
		return nil
	})
}

type budgetAddCmd struct {
	name   string
	kind   string
	amount string
}

func (*budgetAddCmd) Name() string     { return "budget-add" }
func (*budgetAddCmd) Synopsis() string { return "create a monthly budget" }
func (*budgetAddCmd) Usage() string {
	return `fintrack budget-add -type <category> -amount <amount> [-name <label>]

  Creates a monthly budget for a spending category such as groceries,
  eating-out or rent. The name defaults to the type.
`
}

func (c *budgetAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Budget label")
	f.StringVar(&c.kind, "type", "", "Budget category type")
	f.StringVar(&c.amount, "amount", "", "Monthly amount")
}

func (c *budgetAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		b, err := a.planner.AddBudgetCategory(ctx, services.BudgetInput{
			Name:   orFlag(c.name, c.kind),
			Type:   c.kind,
			Amount: amount,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created budget %s (%s)\n", b.Name, b.ID)
		return nil
	})
}

type budgetEditCmd struct {
	id     string
	name   string
	kind   string
	amount string
}

func (*budgetEditCmd) Name() string     { return "budget-edit" }
func (*budgetEditCmd) Synopsis() string { return "change a budget" }
func (*budgetEditCmd) Usage() string {
	return `fintrack budget-edit -id <id> [-name <label>] [-type <category>] [-amount <amount>]

  Updates a budget. Omitted flags keep their current value.
`
}

func (c *budgetEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Budget id")
	f.StringVar(&c.name, "name", "", "New label")
	f.StringVar(&c.kind, "type", "", "New category type")
	f.StringVar(&c.amount, "amount", "", "New monthly amount")
}

func (c *budgetEditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		var cur core.BudgetCategory
		found := false
		for _, b := range a.env.Store.Snapshot().BudgetCategories {
			if b.ID == c.id {
				cur, found = b, true
				break
			}
		}
		if !found {
			return &core.NotFoundError{Kind: "budget", ID: c.id}
		}
		in := services.BudgetInput{
			Name:   orFlag(c.name, cur.Name),
			Type:   orFlag(c.kind, cur.Type),
			Amount: cur.Amount,
		}
		if c.amount != "" {
			amount, err := parseAmount("amount", c.amount)
			if err != nil {
				return err
			}
			in.Amount = amount
		}
		if _, err := a.planner.UpdateBudgetCategory(ctx, c.id, in); err != nil {
			return err
		}
		fmt.Println("Budget updated")
		return nil
	})
}

type budgetDeleteCmd struct {
	id string
}

func (*budgetDeleteCmd) Name() string     { return "budget-delete" }
func (*budgetDeleteCmd) Synopsis() string { return "delete a budget" }
func (*budgetDeleteCmd) Usage() string {
	return `fintrack budget-delete -id <id>
`
}

func (c *budgetDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Budget id")
}

func (c *budgetDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if err := a.planner.DeleteBudgetCategory(ctx, c.id); err != nil {
			return err
		}
		fmt.Println("Budget deleted")
		return nil
	})
}

type remindCmd struct {
	title     string
	amount    string
	date      string
	priority  string
	currency  string
	frequency string
}

func (*remindCmd) Name() string     { return "remind" }
func (*remindCmd) Synopsis() string { return "add a bill reminder" }
func (*remindCmd) Usage() string {
	return `fintrack remind -title <text> -amount <amount> [-d <date>] [-priority low|medium|high] [-currency <code>] [-every weekly|monthly|quarterly|yearly]

  Adds a reminder. With -every, the next occurrences are created as well.
`
}

func (c *remindCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "What is due")
	f.StringVar(&c.amount, "amount", "", "Amount due")
	f.StringVar(&c.date, "d", "", "Due date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.priority, "priority", string(core.Medium), "Priority")
	f.StringVar(&c.currency, "currency", "", "Currency code, defaults to the default currency")
	f.StringVar(&c.frequency, "every", "", "Repeat frequency")
}

func (c *remindCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		rs, err := a.planner.AddReminder(ctx, services.ReminderInput{
			Title:       c.title,
			Amount:      amount,
			Date:        date,
			Priority:    core.Priority(c.priority),
			Currency:    c.currency,
			IsRecurring: c.frequency != "",
			Frequency:   core.Frequency(c.frequency),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %d reminder(s)\n", len(rs))
		return nil
	})
}

type planCmd struct {
	item     string
	cost     string
	date     string
	category string
	currency string
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "add a planned expense" }
func (*planCmd) Usage() string {
	return `fintrack plan -item <text> -cost <amount> [-d <date>] [-category <name>] [-currency <code>]

  Adds a planned expense. Planning never changes balances.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "What is planned")
	f.StringVar(&c.cost, "cost", "", "Expected cost")
	f.StringVar(&c.date, "d", "", "Planned date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.category, "category", "other", "Expense category")
	f.StringVar(&c.currency, "currency", "", "Currency code, defaults to the default currency")
}

func (c *planCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cost, err := parseAmount("cost", c.cost)
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
		p, err := a.planner.AddPlannedExpense(ctx, services.PlannedExpenseInput{
			Item:     c.item,
			Cost:     cost,
			Date:     date,
			Category: c.category,
			Currency: c.currency,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Planned %s (%s)\n", p.Item, p.ID)
		return nil
	})
}

type ideaCmd struct {
	idea       string
	amount     string
	date       string
	confidence int
	currency   string
	frequency  string
	day        string
}

func (*ideaCmd) Name() string     { return "idea" }
func (*ideaCmd) Synopsis() string { return "add an income idea" }
func (*ideaCmd) Usage() string {
	return `fintrack idea -idea <text> -amount <amount> [-d <date>] [-confidence <0-100>] [-currency <code>] [-every <frequency> [-day <day>]]

  Adds an expected income. With -every, the next occurrences are created as
  well; -day pins the day of month (30 means the last day).
`
}

func (c *ideaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.idea, "idea", "", "Expected income")
	f.StringVar(&c.amount, "amount", "", "Expected amount")
	f.StringVar(&c.date, "d", "", "Expected date (YYYY-MM-DD), defaults to today")
	f.IntVar(&c.confidence, "confidence", 50, "Confidence in percent")
	f.StringVar(&c.currency, "currency", "", "Currency code, defaults to the default currency")
	f.StringVar(&c.frequency, "every", "", "Repeat frequency")
	f.StringVar(&c.day, "day", "", "Day of receipt for recurring ideas")
}

func (c *ideaCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		ideas, err := a.planner.AddIncomeIdea(ctx, services.IncomeIdeaInput{
			Idea:         c.idea,
			Amount:       amount,
			Date:         date,
			Confidence:   c.confidence,
			Currency:     c.currency,
			IsRecurring:  c.frequency != "",
			Frequency:    core.Frequency(c.frequency),
			DayOfReceipt: c.day,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %d income idea(s)\n", len(ideas))
		return nil
	})
}

type plannerListCmd struct{}

func (*plannerListCmd) Name() string     { return "plans" }
func (*plannerListCmd) Synopsis() string { return "list reminders, planned expenses and income ideas" }
func (*plannerListCmd) Usage() string {
	return `fintrack plans
`
}
func (*plannerListCmd) SetFlags(*flag.FlagSet) {}

func (*plannerListCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		printMarkdown(plansMarkdown(a.env.Store.Snapshot()))
		return nil
	})
}

type plannerDeleteCmd struct {
	kind string
	id   string
}

func (*plannerDeleteCmd) Name() string     { return "plan-delete" }
func (*plannerDeleteCmd) Synopsis() string { return "delete a reminder, planned expense or income idea" }
func (*plannerDeleteCmd) Usage() string {
	return `fintrack plan-delete -kind reminder|planned|idea -id <id>
`
}

func (c *plannerDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Record kind")
	f.StringVar(&c.id, "id", "", "Record id")
}

func (c *plannerDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		var err error
		switch strings.ToLower(c.kind) {
		case "reminder":
			err = a.planner.DeleteReminder(ctx, c.id)
		case "planned":
			err = a.planner.DeletePlannedExpense(ctx, c.id)
		case "idea":
			err = a.planner.DeleteIncomeIdea(ctx, c.id)
		default:
			return usageError("-kind must be reminder, planned or idea, got %q", c.kind)
		}
		if err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	})
}

type currencyCmd struct {
	set string
}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show or change the default currency" }
func (*currencyCmd) Usage() string {
	return `fintrack currency [-set <code>]

  Without flags, prints the default currency and every supported code.
`
}

func (c *currencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "New default currency code")
}

func (c *currencyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if c.set != "" {
			if err := a.planner.SetDefaultCurrency(ctx, c.set); err != nil {
				return err
			}
		}
		printMarkdown(currencyMarkdown(a.env.Store.Snapshot().Settings.DefaultCurrency, currency.Codes()))
		return nil
	})
}
