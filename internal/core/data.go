package core

import (
	"maps"
	"slices"
)

// DefaultCurrency is used when no settings have been saved yet.
const DefaultCurrency = "USD"

// Data is the complete set of records kept by the tracker.
type Data struct {
	Transactions     []Transaction    `json:"transactions"`
	Accounts         []Account        `json:"accounts"`
	Reminders        []Reminder       `json:"reminders"`
	PlannedExpenses  []PlannedExpense `json:"plannedExpenses"`
	IncomeIdeas      []IncomeIdea     `json:"incomeIdeas"`
	Transfers        []Transfer       `json:"transfers"`
	BudgetCategories []BudgetCategory `json:"budgetCategories"`
	FrequentItems    map[string]int   `json:"frequentItems"`
	Settings         Settings         `json:"settings"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{DefaultCurrency: DefaultCurrency, CurrencyPreferences: map[string]string{}}
}

// EmptyData returns a Data with every collection empty but non-nil.
func EmptyData() Data {
	return Data{
		Transactions:     []Transaction{},
		Accounts:         []Account{},
		Reminders:        []Reminder{},
		PlannedExpenses:  []PlannedExpense{},
		IncomeIdeas:      []IncomeIdea{},
		Transfers:        []Transfer{},
		BudgetCategories: []BudgetCategory{},
		FrequentItems:    map[string]int{},
		Settings:         DefaultSettings(),
	}
}

// Clone returns a copy of d that shares no slices or maps with it.
// Decimal values are immutable and safe to share.
func (d Data) Clone() Data {
	out := Data{
		Transactions:     slices.Clone(d.Transactions),
		Accounts:         slices.Clone(d.Accounts),
		Reminders:        slices.Clone(d.Reminders),
		PlannedExpenses:  slices.Clone(d.PlannedExpenses),
		IncomeIdeas:      slices.Clone(d.IncomeIdeas),
		Transfers:        slices.Clone(d.Transfers),
		BudgetCategories: slices.Clone(d.BudgetCategories),
		FrequentItems:    maps.Clone(d.FrequentItems),
		Settings: Settings{
			DefaultCurrency:     d.Settings.DefaultCurrency,
			CurrencyPreferences: maps.Clone(d.Settings.CurrencyPreferences),
		},
	}
	// transaction payloads are pointers; copy them so edits stay local
	for i, t := range out.Transactions {
		if t.Income != nil {
			inc := *t.Income
			out.Transactions[i].Income = &inc
		}
		if t.Expense != nil {
			exp := *t.Expense
			out.Transactions[i].Expense = &exp
		}
	}
	return out
}

// Normalize replaces nil collections with empty ones so the data
// serializes as [] and {} rather than null.
func (d *Data) Normalize() {
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Accounts == nil {
		d.Accounts = []Account{}
	}
	if d.Reminders == nil {
		d.Reminders = []Reminder{}
	}
	if d.PlannedExpenses == nil {
		d.PlannedExpenses = []PlannedExpense{}
	}
	if d.IncomeIdeas == nil {
		d.IncomeIdeas = []IncomeIdea{}
	}
	if d.Transfers == nil {
		d.Transfers = []Transfer{}
	}
	if d.BudgetCategories == nil {
		d.BudgetCategories = []BudgetCategory{}
	}
	if d.FrequentItems == nil {
		d.FrequentItems = map[string]int{}
	}
	if d.Settings.DefaultCurrency == "" {
		d.Settings.DefaultCurrency = DefaultCurrency
	}
	if d.Settings.CurrencyPreferences == nil {
		d.Settings.CurrencyPreferences = map[string]string{}
	}
}

// AccountIndex returns the position of the account with the given id, or -1.
func (d Data) AccountIndex(id string) int {
	return slices.IndexFunc(d.Accounts, func(a Account) bool { return a.ID == id })
}

// TransactionIndex returns the position of the transaction with the given id, or -1.
func (d Data) TransactionIndex(id string) int {
	return slices.IndexFunc(d.Transactions, func(t Transaction) bool { return t.ID == id })
}
