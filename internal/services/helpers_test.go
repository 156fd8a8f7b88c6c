package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testOptions(pub events.Publisher) []Option {
	return []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
		WithPublisher(pub),
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustAccount(t *testing.T, l *LedgerService, name, currency, balance string) core.Account {
	t.Helper()
	acc, err := l.AddAccount(context.Background(), AccountInput{Name: name, Type: core.Checking, Currency: currency, Balance: dec(balance)})
	if err != nil {
		t.Fatalf("AddAccount(%s) error = %v", name, err)
	}
	return acc
}

func balanceOf(t *testing.T, s *store.Store, id string) decimal.Decimal {
	t.Helper()
	d := s.Snapshot()
	i := d.AccountIndex(id)
	if i < 0 {
		t.Fatalf("account %s not found", id)
	}
	return d.Accounts[i].Balance
}

func assertErrIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
