package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Match them with errors.Is; use errors.As on the typed
// errors below for details.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("source and destination account are the same")
	ErrNotFound          = errors.New("not found")
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyField       = errors.New("required field is empty")
	ErrTooLong          = errors.New("value too long")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrOutOfRange       = errors.New("value out of range")
	ErrDuplicate        = errors.New("duplicate record")
	ErrUnknownCurrency  = errors.New("unknown currency")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientFundsError reports a debit larger than the account balance.
type InsufficientFundsError struct {
	AccountID string
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %s, requested %s",
		e.AccountID, e.Balance.String(), e.Amount.String())
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// SameAccountError reports a transfer whose source and destination match.
type SameAccountError struct {
	AccountID string
}

func (e *SameAccountError) Error() string {
	return fmt.Sprintf("cannot transfer to the same account %s", e.AccountID)
}

func (e *SameAccountError) Is(target error) bool { return target == ErrSameAccount }

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
