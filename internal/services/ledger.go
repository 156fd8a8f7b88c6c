package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// LedgerService moves money: every income, online expense and transfer
// changes account balances and appends its record in one store update.
//
// Editing or deleting a transaction never touches balances. Balances are
// the ledger; transactions are the audit trail.
type LedgerService struct {
	deps
}

func NewLedgerService(s *store.Store, opts ...Option) *LedgerService {
	return &LedgerService{deps: newDeps(s, log.ComponentLedger, opts)}
}

type AccountInput struct {
	Name     string
	Type     core.AccountType
	Currency string // empty means the default currency
	Balance  decimal.Decimal
}

type IncomeInput struct {
	AccountID string
	Amount    decimal.Decimal
	Source    string
	Date      core.Date
}

type ExpenseInput struct {
	Category      string
	Item          string
	Amount        decimal.Decimal
	Date          core.Date
	PaymentMethod core.PaymentMethod
	// BankAccountID is required for online payments and ignored otherwise.
	BankAccountID string
}

// TransactionEdit replaces the editable fields of a transaction. Title is
// the income source or the expense item. Category only applies to
// expenses and defaults to "other".
type TransactionEdit struct {
	Title    string
	Amount   decimal.Decimal
	Date     core.Date
	Category string
}

type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string    // defaults to "Transfer"
	Date          core.Date // defaults to today
}

func accountNotFound(field, id string) error {
	return &core.ValidationError{Field: field, Err: &core.NotFoundError{Kind: "account", ID: id}}
}

// AddAccount creates an account with an opening balance.
func (s *LedgerService) AddAccount(ctx context.Context, in AccountInput) (core.Account, error) {
	var acc core.Account
	err := s.store.Update(ctx, func(d *core.Data) error {
		acc = core.Account{
			ID:        s.newID(),
			Name:      strings.TrimSpace(in.Name),
			Type:      in.Type,
			Currency:  orDefault(in.Currency, d.Settings.DefaultCurrency),
			Balance:   in.Balance,
			CreatedAt: s.now(),
		}
		if err := acc.Validate(); err != nil {
			return err
		}
		d.Accounts = append(d.Accounts, acc)
		return nil
	}, store.KeyAccounts)
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account created",
		log.FieldAccountID, acc.ID,
		log.FieldAmount, acc.Balance.String(),
		log.FieldCurrency, acc.Currency)
	s.publish(ctx, events.Event{Type: events.AccountChanged, RecordID: acc.ID,
		AccountIDs: []string{acc.ID}, Amount: acc.Balance, Currency: acc.Currency})
	return acc, nil
}

// UpdateAccount overwrites name, type, currency and balance. Setting the
// balance here is a direct correction and creates no transaction.
func (s *LedgerService) UpdateAccount(ctx context.Context, id string, in AccountInput) (core.Account, error) {
	var acc core.Account
	err := s.store.Update(ctx, func(d *core.Data) error {
		i := d.AccountIndex(id)
		if i < 0 {
			return &core.NotFoundError{Kind: "account", ID: id}
		}
		now := s.now()
		acc = d.Accounts[i]
		acc.Name = strings.TrimSpace(in.Name)
		acc.Type = in.Type
		acc.Currency = orDefault(in.Currency, d.Settings.DefaultCurrency)
		acc.Balance = in.Balance
		acc.LastModified = &now
		if err := acc.Validate(); err != nil {
			return err
		}
		d.Accounts[i] = acc
		return nil
	}, store.KeyAccounts)
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account updated", log.FieldAccountID, id, log.FieldAmount, acc.Balance.String())
	s.publish(ctx, events.Event{Type: events.AccountChanged, RecordID: id,
		AccountIDs: []string{id}, Amount: acc.Balance, Currency: acc.Currency})
	return acc, nil
}

// DeleteAccount removes the account only. Transactions and transfers that
// reference it are kept as they are.
func (s *LedgerService) DeleteAccount(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(d *core.Data) error {
		var ok bool
		d.Accounts, ok = removeByID(d.Accounts, id, func(a core.Account) string { return a.ID })
		if !ok {
			return &core.NotFoundError{Kind: "account", ID: id}
		}
		return nil
	}, store.KeyAccounts)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Account deleted", log.FieldAccountID, id)
	s.publish(ctx, events.Event{Type: events.AccountChanged, RecordID: id, AccountIDs: []string{id}})
	return nil
}

// RepairAccounts gives accounts saved without a currency the default
// currency and returns how many were fixed.
func (s *LedgerService) RepairAccounts(ctx context.Context) (int, error) {
	snap := s.store.Snapshot()
	missing := 0
	for _, a := range snap.Accounts {
		if strings.TrimSpace(a.Currency) == "" {
			missing++
		}
	}
	if missing == 0 {
		return 0, nil
	}

	fixed := 0
	err := s.store.Update(ctx, func(d *core.Data) error {
		fixed = 0
		for i := range d.Accounts {
			if strings.TrimSpace(d.Accounts[i].Currency) == "" {
				d.Accounts[i].Currency = d.Settings.DefaultCurrency
				fixed++
			}
		}
		return nil
	}, store.KeyAccounts)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Accounts repaired", log.FieldCount, fixed)
	return fixed, nil
}

// PostIncome credits the account and records the income.
func (s *LedgerService) PostIncome(ctx context.Context, in IncomeInput) (core.Transaction, error) {
	if in.AccountID == "" {
		return core.Transaction{}, &core.ValidationError{Field: "accountId", Err: core.ErrEmptyField}
	}

	var tx core.Transaction
	err := s.store.Update(ctx, func(d *core.Data) error {
		i := d.AccountIndex(in.AccountID)
		if i < 0 {
			return accountNotFound("accountId", in.AccountID)
		}
		acc := &d.Accounts[i]
		now := s.now()

		tx = core.Transaction{
			ID:        s.newID(),
			Type:      core.IncomeTx,
			Amount:    in.Amount,
			Date:      in.Date,
			Currency:  acc.Currency,
			Timestamp: now,
			Income: &core.IncomeDetails{
				Source:      strings.TrimSpace(in.Source),
				AccountID:   acc.ID,
				AccountName: acc.Name,
			},
		}
		if err := tx.Validate(); err != nil {
			return err
		}

		acc.Balance = acc.Balance.Add(in.Amount)
		acc.LastModified = &now
		d.Transactions = append(d.Transactions, tx)
		return nil
	}, store.KeyAccounts, store.KeyTransactions)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Income posted",
		log.NewFields().WithRecord(tx.ID).WithAccount(in.AccountID).WithMoney(tx.Amount, tx.Currency).ToSlice()...)
	s.publish(ctx, events.Event{Type: events.IncomePosted, RecordID: tx.ID,
		AccountIDs: []string{in.AccountID}, Amount: tx.Amount, Currency: tx.Currency})
	return tx, nil
}

// PostExpense records an expense. Online payments debit the chosen bank
// account and fail when its balance is too low; cash, card and imported
// payments leave balances alone.
func (s *LedgerService) PostExpense(ctx context.Context, in ExpenseInput) (core.Transaction, error) {
	online := in.PaymentMethod == core.PayOnline
	if online && in.BankAccountID == "" {
		return core.Transaction{}, &core.ValidationError{Field: "bankAccountId", Err: core.ErrEmptyField}
	}

	var tx core.Transaction
	err := s.store.Update(ctx, func(d *core.Data) error {
		now := s.now()
		tx = core.Transaction{
			ID:        s.newID(),
			Type:      core.ExpenseTx,
			Amount:    in.Amount,
			Date:      in.Date,
			Currency:  d.Settings.DefaultCurrency,
			Timestamp: now,
			Expense: &core.ExpenseDetails{
				Category:      strings.TrimSpace(in.Category),
				Item:          strings.TrimSpace(in.Item),
				PaymentMethod: in.PaymentMethod,
			},
		}
		if err := tx.Validate(); err != nil {
			return err
		}

		if online {
			i := d.AccountIndex(in.BankAccountID)
			if i < 0 {
				return accountNotFound("bankAccountId", in.BankAccountID)
			}
			acc := &d.Accounts[i]
			if in.Amount.GreaterThan(acc.Balance) {
				return &core.InsufficientFundsError{AccountID: acc.ID, Balance: acc.Balance, Amount: in.Amount}
			}
			acc.Balance = acc.Balance.Sub(in.Amount)
			acc.LastModified = &now
			tx.Currency = acc.Currency
			tx.Expense.BankAccountID = acc.ID
			tx.Expense.BankAccountName = acc.Name
		}

		d.Transactions = append(d.Transactions, tx)
		d.FrequentItems[tx.Expense.Item]++
		return nil
	}, store.KeyAccounts, store.KeyTransactions, store.KeyFrequentItems)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Expense posted",
		log.NewFields().WithRecord(tx.ID).WithAccount(tx.Expense.BankAccountID).WithMoney(tx.Amount, tx.Currency).ToSlice()...)
	var accounts []string
	if online {
		accounts = []string{in.BankAccountID}
	}
	s.publish(ctx, events.Event{Type: events.ExpensePosted, RecordID: tx.ID,
		AccountIDs: accounts, Amount: tx.Amount, Currency: tx.Currency})
	return tx, nil
}

// EditTransaction changes title, amount, date and (for expenses) category.
// Account balances keep reflecting the originally posted amount.
func (s *LedgerService) EditTransaction(ctx context.Context, id string, edit TransactionEdit) (core.Transaction, error) {
	var tx core.Transaction
	err := s.store.Update(ctx, func(d *core.Data) error {
		i := d.TransactionIndex(id)
		if i < 0 {
			return &core.NotFoundError{Kind: "transaction", ID: id}
		}
		now := s.now()
		tx = d.Transactions[i]
		title := strings.TrimSpace(edit.Title)
		switch tx.Type {
		case core.IncomeTx:
			tx.Income.Source = title
		case core.ExpenseTx:
			tx.Expense.Item = title
			tx.Expense.Category = orDefault(strings.TrimSpace(edit.Category), "other")
		}
		tx.Amount = edit.Amount
		tx.Date = edit.Date
		tx.LastModified = &now
		if err := tx.Validate(); err != nil {
			return err
		}
		d.Transactions[i] = tx
		return nil
	}, store.KeyTransactions)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction edited", log.FieldRecordID, id, log.FieldAmount, tx.Amount.String())
	s.publish(ctx, events.Event{Type: events.TransactionEdited, RecordID: id, Amount: tx.Amount, Currency: tx.Currency})
	return tx, nil
}

// DeleteTransaction removes the record without reversing its balance effect.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	var removed core.Transaction
	err := s.store.Update(ctx, func(d *core.Data) error {
		i := d.TransactionIndex(id)
		if i < 0 {
			return &core.NotFoundError{Kind: "transaction", ID: id}
		}
		removed = d.Transactions[i]
		d.Transactions, _ = removeByID(d.Transactions, id, func(t core.Transaction) string { return t.ID })
		return nil
	}, store.KeyTransactions)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldRecordID, id)
	s.publish(ctx, events.Event{Type: events.TransactionDeleted, RecordID: id, Amount: removed.Amount, Currency: removed.Currency})
	return nil
}

// Transfer moves amount between two accounts at face value; no currency
// conversion happens even when the accounts differ in currency.
func (s *LedgerService) Transfer(ctx context.Context, in TransferInput) (core.Transfer, error) {
	switch {
	case in.FromAccountID == "":
		return core.Transfer{}, &core.ValidationError{Field: "fromAccountId", Err: core.ErrEmptyField}
	case in.ToAccountID == "":
		return core.Transfer{}, &core.ValidationError{Field: "toAccountId", Err: core.ErrEmptyField}
	case in.FromAccountID == in.ToAccountID:
		return core.Transfer{}, &core.SameAccountError{AccountID: in.FromAccountID}
	case !in.Amount.IsPositive():
		return core.Transfer{}, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}

	var tr core.Transfer
	err := s.store.Update(ctx, func(d *core.Data) error {
		fi := d.AccountIndex(in.FromAccountID)
		if fi < 0 {
			return accountNotFound("fromAccountId", in.FromAccountID)
		}
		ti := d.AccountIndex(in.ToAccountID)
		if ti < 0 {
			return accountNotFound("toAccountId", in.ToAccountID)
		}
		from, to := &d.Accounts[fi], &d.Accounts[ti]
		if in.Amount.GreaterThan(from.Balance) {
			return &core.InsufficientFundsError{AccountID: from.ID, Balance: from.Balance, Amount: in.Amount}
		}

		now := s.now()
		date := in.Date
		if date.IsZero() {
			date = core.DateOf(now)
		}
		description := strings.TrimSpace(in.Description)
		if description == "" {
			description = "Transfer"
		}

		from.Balance = from.Balance.Sub(in.Amount)
		to.Balance = to.Balance.Add(in.Amount)
		from.LastModified = &now
		to.LastModified = &now

		tr = core.Transfer{
			ID:              s.newID(),
			FromAccountID:   from.ID,
			ToAccountID:     to.ID,
			FromAccountName: from.Name,
			ToAccountName:   to.Name,
			Amount:          in.Amount,
			Description:     description,
			Date:            date,
			Timestamp:       now,
		}
		d.Transfers = append(d.Transfers, tr)
		return nil
	}, store.KeyAccounts, store.KeyTransfers)
	if err != nil {
		return core.Transfer{}, err
	}

	s.logger.InfoContext(ctx, "Transfer completed",
		log.FieldRecordID, tr.ID,
		log.FieldFromAccount, tr.FromAccountID,
		log.FieldToAccount, tr.ToAccountID,
		log.FieldAmount, tr.Amount.String())
	s.publish(ctx, events.Event{Type: events.TransferCompleted, RecordID: tr.ID,
		AccountIDs: []string{tr.FromAccountID, tr.ToAccountID}, Amount: tr.Amount})
	return tr, nil
}
