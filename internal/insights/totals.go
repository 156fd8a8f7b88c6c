// Package insights computes derived views of the tracker's records:
// totals, per-category spend, budget utilisation, trends and advisory
// suggestions. Every function reads a core.Data and changes nothing.
package insights

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// TotalIncome sums every income transaction across all time.
func TotalIncome(d core.Data) decimal.Decimal {
	return sumTransactions(d.Transactions, func(t core.Transaction) bool { return t.IsIncome() })
}

// TotalExpenses sums every expense transaction across all time.
func TotalExpenses(d core.Data) decimal.Decimal {
	return sumTransactions(d.Transactions, func(t core.Transaction) bool { return t.IsExpense() })
}

// TotalAccountBalance is the current balance and net worth: the raw sum of
// account balances. Currencies are added at face value.
func TotalAccountBalance(d core.Data) decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func sumTransactions(txs []core.Transaction, keep func(core.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if keep(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	switch {
	case p.IsNegative():
		return decimal.Zero
	case p.GreaterThan(hundred):
		return hundred
	}
	return p
}
