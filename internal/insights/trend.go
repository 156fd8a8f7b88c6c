package insights

import (
	"slices"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// DefaultTrendMonths is the length of the income/expense trend.
const DefaultTrendMonths = 6

// MonthMetrics is the headline view of one month.
type MonthMetrics struct {
	Month    core.YearMonth
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
	// BudgetUtilization is the month's expenses as a percentage of the
	// total of all budget amounts. Zero without budgets; may exceed 100.
	BudgetUtilization decimal.Decimal
}

// Metrics computes income, expenses, savings and budget use for month.
func Metrics(d core.Data, month core.YearMonth) MonthMetrics {
	ov := Overview(d, month)
	totalBudget := decimal.Zero
	for _, c := range d.BudgetCategories {
		totalBudget = totalBudget.Add(c.Amount)
	}
	return MonthMetrics{
		Month:             month,
		Income:            ov.Income,
		Expenses:          ov.Expenses,
		Savings:           ov.Income.Sub(ov.Expenses),
		BudgetUtilization: percentOf(ov.Expenses, totalBudget),
	}
}

// Overview returns the income, expenses and per-category spend of month.
func Overview(d core.Data, month core.YearMonth) core.MonthOverview {
	ov := core.MonthOverview{Month: month, Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range d.Transactions {
		if !month.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case core.IncomeTx:
			ov.Income = ov.Income.Add(t.Amount)
		case core.ExpenseTx:
			ov.Expenses = ov.Expenses.Add(t.Amount)
		}
	}
	ov.ByCategory = SpendingByCategory(d, month)
	return ov
}

// SpendingByCategory totals the expenses of month per category, in the
// order categories are first seen.
func SpendingByCategory(d core.Data, month core.YearMonth) []core.CategoryAmount {
	byCat := map[string]decimal.Decimal{}
	var order []string
	for _, t := range d.Transactions {
		if !t.IsExpense() || !month.Contains(t.Date) {
			continue
		}
		cat := t.Category()
		if _, seen := byCat[cat]; !seen {
			order = append(order, cat)
			byCat[cat] = decimal.Zero
		}
		byCat[cat] = byCat[cat].Add(t.Amount)
	}
	list := make([]core.CategoryAmount, 0, len(order))
	for _, name := range order {
		list = append(list, core.CategoryAmount{Name: name, Amount: byCat[name]})
	}
	return list
}

// AvailableMonths lists the distinct months that have transactions,
// newest first.
func AvailableMonths(d core.Data) []core.YearMonth {
	seen := map[core.YearMonth]bool{}
	var months []core.YearMonth
	for _, t := range d.Transactions {
		if t.Date.IsZero() {
			continue
		}
		ym := t.Date.YearMonth()
		if !seen[ym] {
			seen[ym] = true
			months = append(months, ym)
		}
	}
	slices.SortFunc(months, func(a, b core.YearMonth) int {
		switch {
		case b.Before(a):
			return -1
		case a.Before(b):
			return 1
		}
		return 0
	})
	return months
}

// TrendSeries returns overviews of the n most recent months that have
// transactions, oldest first.
func TrendSeries(d core.Data, n int) []core.MonthOverview {
	months := AvailableMonths(d)
	if n >= 0 && len(months) > n {
		months = months[:n]
	}
	slices.Reverse(months)
	out := make([]core.MonthOverview, 0, len(months))
	for _, m := range months {
		out = append(out, Overview(d, m))
	}
	return out
}
