package sheets

import (
	"fintrack/internal/core"
	"fintrack/internal/insights"
)

// Amounts are written as strings so no precision is lost to floats.

func TransactionRows(txs []core.Transaction) [][]any {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, []any{"ID", "Date", "Type", "Title", "Category", "Amount", "Currency", "Payment", "Account"})
	for _, t := range txs {
		var payment, account string
		switch {
		case t.Expense != nil:
			payment = string(t.Expense.PaymentMethod)
			account = t.Expense.BankAccountName
		case t.Income != nil:
			account = t.Income.AccountName
		}
		rows = append(rows, []any{
			t.ID, t.Date.String(), string(t.Type), t.Title(), t.Category(),
			t.Amount.StringFixed(2), t.Currency, payment, account,
		})
	}
	return rows
}

func AccountRows(accounts []core.Account) [][]any {
	rows := make([][]any, 0, len(accounts)+1)
	rows = append(rows, []any{"ID", "Name", "Type", "Currency", "Balance"})
	for _, a := range accounts {
		rows = append(rows, []any{a.ID, a.Name, string(a.Type), a.Currency, a.Balance.StringFixed(2)})
	}
	return rows
}

func TransferRows(transfers []core.Transfer) [][]any {
	rows := make([][]any, 0, len(transfers)+1)
	rows = append(rows, []any{"ID", "Date", "From", "To", "Amount", "Description"})
	for _, t := range transfers {
		rows = append(rows, []any{t.ID, t.Date.String(), t.FromAccountName, t.ToAccountName,
			t.Amount.StringFixed(2), t.Description})
	}
	return rows
}

func SummaryRows(trend []core.MonthOverview) [][]any {
	rows := make([][]any, 0, len(trend)+1)
	rows = append(rows, []any{"Month", "Income", "Expenses", "Net"})
	for _, ov := range trend {
		rows = append(rows, []any{ov.Month.String(), ov.Income.StringFixed(2), ov.Expenses.StringFixed(2),
			ov.Income.Sub(ov.Expenses).StringFixed(2)})
	}
	return rows
}

// BudgetRows lists each budget of the summary's month followed by a total row.
func BudgetRows(s insights.BudgetSummary) [][]any {
	rows := make([][]any, 0, len(s.Categories)+2)
	rows = append(rows, []any{"Month", "Budget", "Type", "Amount", "Spent", "Remaining", "Used %", "Status"})
	month := s.Month.String()
	for _, u := range s.Categories {
		rows = append(rows, []any{month, u.Category.Name, u.Category.Type, u.Category.Amount.StringFixed(2),
			u.Spent.StringFixed(2), u.Remaining.StringFixed(2), u.Percent.StringFixed(1), string(u.Status)})
	}
	if len(s.Categories) > 0 {
		rows = append(rows, []any{month, "Total", "", s.TotalBudget.StringFixed(2), s.TotalSpent.StringFixed(2),
			s.Remaining.StringFixed(2), s.Percent.StringFixed(1), string(s.Status)})
	}
	return rows
}
