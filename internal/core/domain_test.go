package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransaction_Validate(t *testing.T) {
	date := NewDate(2024, 5, 10)
	amount := decimal.RequireFromString("85.40")

	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "valid expense",
			tx: Transaction{Type: ExpenseTx, Amount: amount, Date: date,
				Expense: &ExpenseDetails{Category: "groceries", Item: "Weekly shop", PaymentMethod: PayCard}},
		},
		{
			name: "valid income",
			tx:   Transaction{Type: IncomeTx, Amount: amount, Date: date, Income: &IncomeDetails{Source: "Salary"}},
		},
		{
			name:    "zero amount",
			tx:      Transaction{Type: IncomeTx, Amount: decimal.Zero, Date: date, Income: &IncomeDetails{Source: "Salary"}},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing date",
			tx:      Transaction{Type: IncomeTx, Amount: amount, Income: &IncomeDetails{Source: "Salary"}},
			wantErr: ErrValidation,
		},
		{
			name:    "type without payload",
			tx:      Transaction{Type: ExpenseTx, Amount: amount, Date: date},
			wantErr: ErrInvalidType,
		},
		{
			name: "both payloads",
			tx: Transaction{Type: IncomeTx, Amount: amount, Date: date,
				Income:  &IncomeDetails{Source: "Salary"},
				Expense: &ExpenseDetails{Category: "x", Item: "y", PaymentMethod: PayCash}},
			wantErr: ErrInvalidType,
		},
		{
			name: "blank item",
			tx: Transaction{Type: ExpenseTx, Amount: amount, Date: date,
				Expense: &ExpenseDetails{Category: "groceries", Item: "  ", PaymentMethod: PayCard}},
			wantErr: ErrEmptyField,
		},
		{
			name: "unknown payment method",
			tx: Transaction{Type: ExpenseTx, Amount: amount, Date: date,
				Expense: &ExpenseDetails{Category: "groceries", Item: "Milk", PaymentMethod: "cheque"}},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error %v should match ErrValidation", err)
			}
		})
	}
}

func TestReminder_Validate_Frequency(t *testing.T) {
	r := Reminder{Title: "Rent", Amount: decimal.NewFromInt(900), Date: NewDate(2024, 1, 1),
		Priority: High, Currency: "USD", IsRecurring: true, Frequency: Monthly}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	r.Frequency = Quarterly
	if err := r.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("quarterly reminder: error = %v, want ErrInvalidFrequency", err)
	}

	r.IsRecurring = false
	r.Frequency = ""
	if err := r.Validate(); err != nil {
		t.Errorf("one-off reminder: unexpected error %v", err)
	}
}

func TestIncomeIdea_Validate(t *testing.T) {
	base := IncomeIdea{Idea: "Freelance", Amount: decimal.NewFromInt(500), Date: NewDate(2024, 1, 15),
		Confidence: 70, Currency: "EUR", IsRecurring: true, Frequency: Quarterly, DayOfReceipt: "30"}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if base.TargetDay() != LastDayOfMonth {
		t.Errorf("TargetDay() = %d, want %d", base.TargetDay(), LastDayOfMonth)
	}

	bad := base
	bad.Confidence = 101
	if err := bad.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("confidence 101: error = %v, want ErrOutOfRange", err)
	}

	bad = base
	bad.DayOfReceipt = "32"
	if err := bad.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("day 32: error = %v, want ErrOutOfRange", err)
	}

	weekly := base
	weekly.Frequency = Weekly
	weekly.DayOfReceipt = "friday"
	if err := weekly.Validate(); err != nil {
		t.Errorf("weekday receipt: unexpected error %v", err)
	}
	if weekly.TargetDay() != 0 {
		t.Errorf("TargetDay() = %d, want 0 for weekday", weekly.TargetDay())
	}
}

func TestTypedErrors(t *testing.T) {
	var err error = &InsufficientFundsError{AccountID: "a1", Balance: decimal.NewFromInt(10), Amount: decimal.NewFromInt(20)}
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Error("InsufficientFundsError should match ErrInsufficientFunds")
	}
	var ife *InsufficientFundsError
	if !errors.As(err, &ife) || ife.AccountID != "a1" {
		t.Error("errors.As should extract InsufficientFundsError")
	}

	if !errors.Is(&SameAccountError{AccountID: "a1"}, ErrSameAccount) {
		t.Error("SameAccountError should match ErrSameAccount")
	}
	if !errors.Is(&NotFoundError{Kind: "account", ID: "x"}, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if errors.Is(&NotFoundError{Kind: "account", ID: "x"}, ErrValidation) {
		t.Error("NotFoundError should not match ErrValidation")
	}
}

func TestData_CloneIsIndependent(t *testing.T) {
	d := EmptyData()
	d.Accounts = append(d.Accounts, Account{ID: "a1", Balance: decimal.NewFromInt(5)})
	d.Transactions = append(d.Transactions, Transaction{ID: "t1", Type: ExpenseTx,
		Expense: &ExpenseDetails{Category: "food", Item: "Lunch", PaymentMethod: PayCash}})
	d.FrequentItems["Lunch"] = 1

	c := d.Clone()
	c.Accounts[0].Balance = decimal.NewFromInt(99)
	c.Transactions[0].Expense.Item = "Dinner"
	c.FrequentItems["Lunch"] = 7
	c.Settings.CurrencyPreferences["x"] = "y"

	if !d.Accounts[0].Balance.Equal(decimal.NewFromInt(5)) {
		t.Error("clone shares accounts")
	}
	if d.Transactions[0].Expense.Item != "Lunch" {
		t.Error("clone shares expense payload")
	}
	if d.FrequentItems["Lunch"] != 1 {
		t.Error("clone shares frequent items")
	}
	if len(d.Settings.CurrencyPreferences) != 0 {
		t.Error("clone shares currency preferences")
	}
}

func TestData_Normalize(t *testing.T) {
	var d Data
	d.Normalize()
	if d.Transactions == nil || d.FrequentItems == nil || d.Settings.CurrencyPreferences == nil {
		t.Fatal("Normalize() left nil collections")
	}
	if d.Settings.DefaultCurrency != DefaultCurrency {
		t.Errorf("DefaultCurrency = %q, want %q", d.Settings.DefaultCurrency, DefaultCurrency)
	}
}
