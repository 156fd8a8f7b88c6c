package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/insights"
)

func TestTransactionRows(t *testing.T) {
	txs := []core.Transaction{
		{ID: "1", Type: core.ExpenseTx, Amount: decimal.RequireFromString("85.4"), Date: core.NewDate(2024, 5, 14), Currency: "USD",
			Expense: &core.ExpenseDetails{Category: "groceries", Item: "Shop", PaymentMethod: core.PayOnline, BankAccountName: "Checking"}},
		{ID: "2", Type: core.IncomeTx, Amount: decimal.NewFromInt(10), Date: core.NewDate(2024, 5, 1), Currency: "EUR",
			Income: &core.IncomeDetails{Source: "Gift", AccountName: "Savings"}},
	}
	rows := TransactionRows(txs)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	tests := []struct {
		row, col int
		want     any
	}{
		{0, 0, "ID"},
		{1, 3, "Shop"},
		{1, 4, "groceries"},
		{1, 5, "85.40"},
		{1, 7, "online"},
		{1, 8, "Checking"},
		{2, 4, ""},
		{2, 7, ""},
		{2, 8, "Savings"},
	}
	for _, tt := range tests {
		if got := rows[tt.row][tt.col]; got != tt.want {
			t.Errorf("rows[%d][%d] = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestTabs(t *testing.T) {
	d := core.EmptyData()
	d.Accounts = []core.Account{{ID: "a", Name: "Main", Type: core.Cash, Currency: "USD", Balance: decimal.NewFromInt(-3)}}
	d.Transfers = []core.Transfer{{ID: "t", FromAccountName: "A", ToAccountName: "B", Amount: decimal.NewFromInt(5),
		Date: core.NewDate(2024, 1, 2), Timestamp: time.Now()}}
	trend := []core.MonthOverview{{Month: core.YearMonth{Year: 2024, Month: time.January},
		Income: decimal.NewFromInt(100), Expenses: decimal.RequireFromString("120.5")}}

	tabs := Tabs(d, trend)
	names := []string{TabTransactions, TabAccounts, TabTransfers, TabSummary}
	if len(tabs) != len(names) {
		t.Fatalf("tabs = %d", len(tabs))
	}
	for i, tab := range tabs {
		if tab.Name != names[i] {
			t.Errorf("tab %d = %s, want %s", i, tab.Name, names[i])
		}
	}
	if got := tabs[1].Rows[1][4]; got != "-3.00" {
		t.Errorf("balance cell = %v", got)
	}
	if got := tabs[3].Rows[1][3]; got != "-20.50" {
		t.Errorf("net cell = %v", got)
	}
	if len(tabs[0].Rows) != 1 {
		t.Errorf("empty transactions tab should hold only the header")
	}
}

func TestBudgetRows(t *testing.T) {
	if rows := BudgetRows(insights.BudgetSummary{}); len(rows) != 1 {
		t.Errorf("no budgets: rows = %d, want header only", len(rows))
	}

	s := insights.BudgetSummary{
		Month:       core.YearMonth{Year: 2024, Month: time.May},
		TotalBudget: decimal.NewFromInt(500),
		TotalSpent:  decimal.RequireFromString("241.5"),
		Remaining:   decimal.RequireFromString("258.5"),
		Percent:     decimal.RequireFromString("48.3"),
		Status:      insights.OnTrack,
		Categories: []insights.Utilization{{
			Category:  core.BudgetCategory{Name: "Food", Type: "groceries", Amount: decimal.NewFromInt(500)},
			Spent:     decimal.RequireFromString("241.5"),
			Remaining: decimal.RequireFromString("258.5"),
			Percent:   decimal.RequireFromString("48.3"),
			Status:    insights.OnTrack,
		}},
	}
	rows := BudgetRows(s)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	want := []any{"2024-05", "Food", "groceries", "500.00", "241.50", "258.50", "48.3", "on-track"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("cell %d = %v, want %v", i, rows[1][i], v)
		}
	}
	if rows[2][1] != "Total" {
		t.Errorf("last row = %v, want total", rows[2])
	}
}
