package insights

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// fallbackAvailableFunds stands in for the balance when it is not positive.
var fallbackAvailableFunds = decimal.NewFromInt(1000)

// Dashboard is the all-time headline view.
type Dashboard struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	// CurrentBalance and NetWorth are both the sum of account balances.
	CurrentBalance decimal.Decimal
	NetWorth       decimal.Decimal
	// SpentPercent is all-time expenses over available funds, capped at 100.
	SpentPercent decimal.Decimal
}

func BuildDashboard(d core.Data) Dashboard {
	income, expenses, balance := TotalIncome(d), TotalExpenses(d), TotalAccountBalance(d)
	available := balance
	if !available.IsPositive() {
		available = fallbackAvailableFunds
	}
	return Dashboard{
		TotalIncome:    income,
		TotalExpenses:  expenses,
		CurrentBalance: balance,
		NetWorth:       balance,
		SpentPercent:   clampPercent(percentOf(expenses, available)),
	}
}
