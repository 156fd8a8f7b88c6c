package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Month      YearMonth
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	ByCategory []CategoryAmount
}
