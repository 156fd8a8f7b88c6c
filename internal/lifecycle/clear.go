package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// ClearOptions selects what ClearSelected wipes. AccountBalances zeroes
// balances but keeps the accounts, and is ignored when Accounts is set.
type ClearOptions struct {
	Transactions    bool
	Accounts        bool
	AccountBalances bool
	Reminders       bool
	PlannedExpenses bool
	IncomeIdeas     bool
	Transfers       bool
	Budgets         bool
}

// ClearEverything selects every collection.
func ClearEverything() ClearOptions {
	return ClearOptions{Transactions: true, Accounts: true, Reminders: true, PlannedExpenses: true,
		IncomeIdeas: true, Transfers: true, Budgets: true}
}

// ParseClearOptions reads a comma separated list such as
// "transactions,balances". "all" selects everything.
func ParseClearOptions(s string) (ClearOptions, error) {
	var o ClearOptions
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "all":
			o = ClearEverything()
		case "transactions":
			o.Transactions = true
		case "accounts":
			o.Accounts = true
		case "balances", "account-balances":
			o.AccountBalances = true
		case "reminders":
			o.Reminders = true
		case "planned", "planned-expenses":
			o.PlannedExpenses = true
		case "ideas", "income-ideas":
			o.IncomeIdeas = true
		case "transfers":
			o.Transfers = true
		case "budgets":
			o.Budgets = true
		default:
			return ClearOptions{}, fmt.Errorf("%w: clear option %q", core.ErrInvalidType, name)
		}
	}
	return o, nil
}

// ClearSelected wipes the selected collections and returns a label for
// each thing cleared, in a fixed order.
func (m *Manager) ClearSelected(ctx context.Context, o ClearOptions) ([]string, error) {
	var (
		keys    []store.Key
		cleared []string
	)
	add := func(on bool, k store.Key, label string) {
		if on {
			keys = append(keys, k)
			cleared = append(cleared, label)
		}
	}
	add(o.Transactions, store.KeyTransactions, "transactions")
	add(o.Accounts, store.KeyAccounts, "accounts")
	zeroBalances := o.AccountBalances && !o.Accounts
	if zeroBalances {
		cleared = append(cleared, "account balances")
	}
	add(o.Reminders, store.KeyReminders, "reminders")
	add(o.PlannedExpenses, store.KeyPlannedExpenses, "planned expenses")
	add(o.IncomeIdeas, store.KeyIncomeIdeas, "income ideas")
	add(o.Transfers, store.KeyTransfers, "transfer history")
	add(o.Budgets, store.KeyBudgetCategories, "budget categories")

	if len(cleared) == 0 {
		return nil, nil
	}

	if len(keys) > 0 {
		if err := m.store.Reset(ctx, keys...); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}
	if zeroBalances {
		err := m.store.Update(ctx, func(d *core.Data) error {
			now := m.now()
			for i := range d.Accounts {
				d.Accounts[i].Balance = decimal.Zero
				d.Accounts[i].LastModified = &now
			}
			return nil
		}, store.KeyAccounts)
		if err != nil {
			return nil, fmt.Errorf("zero balances: %w", err)
		}
	}

	m.logger.InfoContext(ctx, "Data cleared",
		log.FieldOperation, log.OpClear,
		"cleared", strings.Join(cleared, ", "))
	m.publish(ctx, events.Event{Type: events.DataCleared})
	return cleared, nil
}
