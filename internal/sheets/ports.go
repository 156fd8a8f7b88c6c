// Package sheets mirrors the record store into a spreadsheet: one tab per
// collection, rewritten whole on every sync.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Tab names written by the mirror.
const (
	TabTransactions = "Transactions"
	TabAccounts     = "Accounts"
	TabTransfers    = "Transfers"
	TabSummary      = "Summary"
	TabBudgets      = "Budgets"
)

// Tab is a named grid. The first row is the header.
type Tab struct {
	Name string
	Rows [][]any
}

// Ports for outbound adapters.
type (
	// SnapshotWriter replaces the contents of each tab.
	SnapshotWriter interface {
		WriteSnapshot(ctx context.Context, tabs []Tab) error
	}
)

// Tabs renders the data as mirror tabs. trend supplies the Summary rows.
func Tabs(d core.Data, trend []core.MonthOverview) []Tab {
	return []Tab{
		{Name: TabTransactions, Rows: TransactionRows(d.Transactions)},
		{Name: TabAccounts, Rows: AccountRows(d.Accounts)},
		{Name: TabTransfers, Rows: TransferRows(d.Transfers)},
		{Name: TabSummary, Rows: SummaryRows(trend)},
	}
}
