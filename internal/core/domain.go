package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Cash       AccountType = "cash"
	Crypto     AccountType = "crypto"
	Investment AccountType = "investment"
)

const (
	IncomeTx  TransactionType = "income"
	ExpenseTx TransactionType = "expense"
)

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayOnline   PaymentMethod = "online"
	PayImported PaymentMethod = "imported"
)

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// LastDayOfMonth is the day-of-receipt value meaning "last calendar day".
const LastDayOfMonth = 30

type (
	AccountType     string
	TransactionType string
	PaymentMethod   string
	Priority        string
	Frequency       string

	Account struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Type         AccountType     `json:"type"`
		Currency     string          `json:"currency"`
		Balance      decimal.Decimal `json:"balance"`
		CreatedAt    time.Time       `json:"createdAt"`
		LastModified *time.Time      `json:"lastModified,omitempty"`
	}

	// Transaction is an income or an expense. Exactly one of Income and
	// Expense is set, matching Type.
	Transaction struct {
		ID           string          `json:"id"`
		Type         TransactionType `json:"type"`
		Amount       decimal.Decimal `json:"amount"`
		Date         Date            `json:"date"`
		Currency     string          `json:"currency,omitempty"`
		Timestamp    time.Time       `json:"timestamp"`
		LastModified *time.Time      `json:"lastModified,omitempty"`
		Income       *IncomeDetails  `json:"income,omitempty"`
		Expense      *ExpenseDetails `json:"expense,omitempty"`
	}

	IncomeDetails struct {
		Source      string `json:"source"`
		AccountID   string `json:"accountId,omitempty"`
		AccountName string `json:"accountName,omitempty"`
	}

	ExpenseDetails struct {
		Category        string        `json:"category"`
		Item            string        `json:"item"`
		PaymentMethod   PaymentMethod `json:"paymentMethod"`
		BankAccountID   string        `json:"bankAccountId,omitempty"`
		BankAccountName string        `json:"bankAccountName,omitempty"`
	}

	Transfer struct {
		ID              string          `json:"id"`
		FromAccountID   string          `json:"fromAccountId"`
		ToAccountID     string          `json:"toAccountId"`
		FromAccountName string          `json:"fromAccountName"`
		ToAccountName   string          `json:"toAccountName"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		Date            Date            `json:"date"`
		Timestamp       time.Time       `json:"timestamp"`
	}

	Reminder struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
		Priority    Priority        `json:"priority"`
		Currency    string          `json:"currency"`
		IsRecurring bool            `json:"isRecurring"`
		Frequency   Frequency       `json:"frequency,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	PlannedExpense struct {
		ID        string          `json:"id"`
		Item      string          `json:"item"`
		Cost      decimal.Decimal `json:"cost"`
		Date      Date            `json:"date"`
		Category  string          `json:"category"`
		Currency  string          `json:"currency"`
		CreatedAt time.Time       `json:"createdAt"`
	}

	IncomeIdea struct {
		ID          string          `json:"id"`
		Idea        string          `json:"idea"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
		Confidence  int             `json:"confidence"`
		Currency    string          `json:"currency"`
		IsRecurring bool            `json:"isRecurring"`
		Frequency   Frequency       `json:"frequency,omitempty"`
		// DayOfReceipt is a day of month ("1".."31", "30" meaning last day)
		// or a weekday name for weekly ideas.
		DayOfReceipt string    `json:"dayOfReceipt,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	BudgetCategory struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Type         string          `json:"type"`
		Amount       decimal.Decimal `json:"amount"`
		CreatedAt    time.Time       `json:"createdAt"`
		LastModified *time.Time      `json:"lastModified,omitempty"`
	}

	Settings struct {
		DefaultCurrency     string            `json:"defaultCurrency"`
		CurrencyPreferences map[string]string `json:"currencyPreferences"`
	}
)

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Cash, Crypto, Investment:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	return t == IncomeTx || t == ExpenseTx
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PayCash, PayCard, PayOnline, PayImported:
		return true
	}
	return false
}

func (p Priority) IsValid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Title returns the label shown for the transaction: the income source or
// the expense item.
func (t Transaction) Title() string {
	switch {
	case t.Income != nil:
		return t.Income.Source
	case t.Expense != nil:
		return t.Expense.Item
	}
	return ""
}

// Category returns the expense category, or "" for income.
func (t Transaction) Category() string {
	if t.Expense != nil {
		return t.Expense.Category
	}
	return ""
}

// IsExpense reports whether t is an expense.
func (t Transaction) IsExpense() bool { return t.Type == ExpenseTx }

// IsIncome reports whether t is an income.
func (t Transaction) IsIncome() bool { return t.Type == IncomeTx }

// TargetDay returns the numeric day of receipt, or 0 when none is set or
// the value is a weekday name.
func (i IncomeIdea) TargetDay() int {
	n, err := strconv.Atoi(strings.TrimSpace(i.DayOfReceipt))
	if err != nil {
		return 0
	}
	return n
}

func validText(field, s string, max int) error {
	if strings.TrimSpace(s) == "" {
		return &ValidationError{Field: field, Err: ErrEmptyField}
	}
	if len(s) > max {
		return &ValidationError{Field: field, Err: ErrTooLong}
	}
	return nil
}

func positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return &ValidationError{Field: field, Err: ErrInvalidAmount}
	}
	return nil
}

func (a Account) Validate() error {
	if err := validText("name", a.Name, 100); err != nil {
		return err
	}
	if !a.Type.IsValid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	if strings.TrimSpace(a.Currency) == "" {
		return &ValidationError{Field: "currency", Err: ErrEmptyField}
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := positive("amount", t.Amount); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	switch t.Type {
	case IncomeTx:
		if t.Income == nil || t.Expense != nil {
			return &ValidationError{Field: "type", Err: ErrInvalidType}
		}
		return validText("source", t.Income.Source, 200)
	case ExpenseTx:
		if t.Expense == nil || t.Income != nil {
			return &ValidationError{Field: "type", Err: ErrInvalidType}
		}
		if err := validText("item", t.Expense.Item, 200); err != nil {
			return err
		}
		if strings.TrimSpace(t.Expense.Category) == "" {
			return &ValidationError{Field: "category", Err: ErrEmptyField}
		}
		if !t.Expense.PaymentMethod.IsValid() {
			return &ValidationError{Field: "paymentMethod", Err: ErrInvalidType}
		}
		return nil
	default:
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
}

func (r Reminder) Validate() error {
	if err := validText("title", r.Title, 200); err != nil {
		return err
	}
	if err := positive("amount", r.Amount); err != nil {
		return err
	}
	if err := r.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if !r.Priority.IsValid() {
		return &ValidationError{Field: "priority", Err: ErrInvalidType}
	}
	if strings.TrimSpace(r.Currency) == "" {
		return &ValidationError{Field: "currency", Err: ErrEmptyField}
	}
	if r.IsRecurring {
		// quarterly is only offered for income ideas
		if !r.Frequency.IsValid() || r.Frequency == Quarterly {
			return &ValidationError{Field: "frequency", Err: ErrInvalidFrequency}
		}
	}
	return nil
}

func (p PlannedExpense) Validate() error {
	if err := validText("item", p.Item, 200); err != nil {
		return err
	}
	if err := positive("cost", p.Cost); err != nil {
		return err
	}
	if err := p.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if strings.TrimSpace(p.Category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyField}
	}
	if strings.TrimSpace(p.Currency) == "" {
		return &ValidationError{Field: "currency", Err: ErrEmptyField}
	}
	return nil
}

func (i IncomeIdea) Validate() error {
	if err := validText("idea", i.Idea, 200); err != nil {
		return err
	}
	if err := positive("amount", i.Amount); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if i.Confidence < 0 || i.Confidence > 100 {
		return &ValidationError{Field: "confidence", Err: ErrOutOfRange}
	}
	if strings.TrimSpace(i.Currency) == "" {
		return &ValidationError{Field: "currency", Err: ErrEmptyField}
	}
	if i.IsRecurring && !i.Frequency.IsValid() {
		return &ValidationError{Field: "frequency", Err: ErrInvalidFrequency}
	}
	if day := strings.TrimSpace(i.DayOfReceipt); day != "" {
		if n, err := strconv.Atoi(day); err == nil && (n < 1 || n > 31) {
			return &ValidationError{Field: "dayOfReceipt", Err: ErrOutOfRange}
		}
	}
	return nil
}

func (b BudgetCategory) Validate() error {
	if err := validText("name", b.Name, 100); err != nil {
		return err
	}
	if strings.TrimSpace(b.Type) == "" {
		return &ValidationError{Field: "type", Err: ErrEmptyField}
	}
	return positive("amount", b.Amount)
}
