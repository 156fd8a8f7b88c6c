// Package events describes the notifications emitted after money moves.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type names what happened.
type Type string

const (
	AccountChanged     Type = "account.changed"
	IncomePosted       Type = "income.posted"
	ExpensePosted      Type = "expense.posted"
	TransferCompleted  Type = "transfer.completed"
	TransactionEdited  Type = "transaction.edited"
	TransactionDeleted Type = "transaction.deleted"
	DataImported       Type = "data.imported"
	DataCleared        Type = "data.cleared"
)

// Event is published once the change it reports has been stored.
type Event struct {
	Type       Type            `json:"type"`
	RecordID   string          `json:"recordId,omitempty"`
	AccountIDs []string        `json:"accountIds,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Publisher delivers events to some transport.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// ToJSON encodes the event for the wire.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event produced by ToJSON.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
