// Package store holds the tracker's records in memory and persists them
// through a key-value Backend, one value per collection.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Key names one persisted collection.
type Key string

const (
	KeyTransactions     Key = "transactions"
	KeyAccounts         Key = "accounts"
	KeyReminders        Key = "reminders"
	KeyPlannedExpenses  Key = "plannedExpenses"
	KeyIncomeIdeas      Key = "incomeIdeas"
	KeyTransfers        Key = "transfers"
	KeyBudgetCategories Key = "budgetCategories"
	KeyFrequentItems    Key = "frequentItems"
	KeySettings         Key = "settings"
)

// Keys returns every persisted key in load order.
func Keys() []Key {
	return []Key{
		KeyTransactions, KeyAccounts, KeyReminders, KeyPlannedExpenses, KeyIncomeIdeas,
		KeyTransfers, KeyBudgetCategories, KeyFrequentItems, KeySettings,
	}
}

// Backend persists raw values by key.
type Backend interface {
	// Load returns the stored value and whether the key exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// BatchSaver is implemented by backends able to apply several writes
// atomically. A nil value in values removes the key.
type BatchSaver interface {
	SaveBatch(ctx context.Context, values map[string][]byte) error
}

// CommitPolicy decides when changes reach the backend.
type CommitPolicy int

const (
	// AutoCommit persists every successful Update before it becomes visible.
	AutoCommit CommitPolicy = iota
	// ManualCommit keeps changes in memory until Commit is called.
	ManualCommit
)

// ParseCommitPolicy maps "auto" and "manual" to a policy.
func ParseCommitPolicy(s string) (CommitPolicy, error) {
	switch s {
	case "", "auto":
		return AutoCommit, nil
	case "manual":
		return ManualCommit, nil
	}
	return AutoCommit, fmt.Errorf("unknown commit policy %q", s)
}

func (p CommitPolicy) String() string {
	if p == ManualCommit {
		return "manual"
	}
	return "auto"
}

// Option configures a Store.
type Option func(*Store)

// WithCommitPolicy sets the commit policy. The default is AutoCommit.
func WithCommitPolicy(p CommitPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// Store owns the in-memory copy of every collection. It enforces no
// cross-record rules; callers mutate it through Update.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	policy  CommitPolicy
	logger  *log.Logger

	data    core.Data
	rev     uint64
	dirty   map[Key]bool
	removed map[Key]bool
}

// Open loads every key from b, using empty defaults for missing ones.
func Open(ctx context.Context, b Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: b,
		logger:  log.Discard(),
		dirty:   map[Key]bool{},
		removed: map[Key]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	data, err := load(ctx, b)
	if err != nil {
		return nil, err
	}
	s.data = data
	return s, nil
}

func load(ctx context.Context, b Backend) (core.Data, error) {
	data := core.EmptyData()
	for _, k := range Keys() {
		raw, ok, err := b.Load(ctx, string(k))
		if err != nil {
			return core.Data{}, fmt.Errorf("load %s: %w", k, err)
		}
		if !ok || len(raw) == 0 {
			continue
		}
		if err := decode(&data, k, raw); err != nil {
			return core.Data{}, fmt.Errorf("decode %s: %w", k, err)
		}
	}
	data.Normalize()
	return data, nil
}

// Policy returns the commit policy.
func (s *Store) Policy() CommitPolicy { return s.policy }

// Snapshot returns a deep copy of the current data.
func (s *Store) Snapshot() core.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// View returns a snapshot together with the revision it was taken at.
func (s *Store) View() (core.Data, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), s.rev
}

// Revision increases with every applied change, including reloads.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Dirty reports whether there are uncommitted changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty)+len(s.removed) > 0
}

// Update runs fn on a working copy of the data and installs the copy only
// when fn returns nil. keys lists the collections fn may change; only
// those are persisted. Under AutoCommit the change is written before it
// becomes visible, so a failed write leaves the store untouched.
func (s *Store) Update(ctx context.Context, fn func(*core.Data) error, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.Clone()
	if err := fn(&work); err != nil {
		return err
	}
	work.Normalize()

	if s.policy == AutoCommit {
		if err := s.flush(ctx, work, keys, nil); err != nil {
			return err
		}
	} else {
		for _, k := range keys {
			s.dirty[k] = true
			delete(s.removed, k)
		}
	}
	s.data = work
	s.rev++
	return nil
}

// Reset empties the given collections and removes their persisted values.
// Settings reset to their defaults.
func (s *Store) Reset(ctx context.Context, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.Clone()
	for _, k := range keys {
		if err := reset(&work, k); err != nil {
			return err
		}
	}

	if s.policy == AutoCommit {
		if err := s.flush(ctx, work, nil, keys); err != nil {
			return err
		}
	} else {
		for _, k := range keys {
			s.removed[k] = true
			delete(s.dirty, k)
		}
	}
	s.data = work
	s.rev++
	return nil
}

// Commit writes every pending change to the backend. It is a no-op under
// AutoCommit or when nothing changed.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.dirty)+len(s.removed) == 0 {
		return nil
	}
	saves := sortedKeys(s.dirty)
	removes := sortedKeys(s.removed)
	if err := s.flush(ctx, s.data, saves, removes); err != nil {
		return err
	}
	clear(s.dirty)
	clear(s.removed)
	return nil
}

// Reload discards uncommitted changes and reads everything from the backend.
func (s *Store) Reload(ctx context.Context) error {
	data, err := load(ctx, s.backend)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	clear(s.dirty)
	clear(s.removed)
	s.rev++
	s.logger.Debug("Store reloaded", log.FieldOperation, log.OpLoad, log.FieldRevision, s.rev)
	return nil
}

func (s *Store) flush(ctx context.Context, data core.Data, saves, removes []Key) error {
	values := make(map[string][]byte, len(saves)+len(removes))
	for _, k := range saves {
		raw, err := encode(data, k)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		values[string(k)] = raw
	}
	for _, k := range removes {
		values[string(k)] = nil
	}
	if len(values) == 0 {
		return nil
	}

	if bs, ok := s.backend.(BatchSaver); ok {
		if err := bs.SaveBatch(ctx, values); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	} else {
		for _, k := range slices.Sorted(maps.Keys(values)) {
			var err error
			if values[k] == nil {
				err = s.backend.Remove(ctx, k)
			} else {
				err = s.backend.Save(ctx, k, values[k])
			}
			if err != nil {
				return fmt.Errorf("commit %s: %w", k, err)
			}
		}
	}
	s.logger.Debug("Store committed", log.FieldOperation, log.OpCommit, log.FieldCount, len(values))
	return nil
}

func encode(d core.Data, k Key) ([]byte, error) {
	switch k {
	case KeyTransactions:
		return json.Marshal(d.Transactions)
	case KeyAccounts:
		return json.Marshal(d.Accounts)
	case KeyReminders:
		return json.Marshal(d.Reminders)
	case KeyPlannedExpenses:
		return json.Marshal(d.PlannedExpenses)
	case KeyIncomeIdeas:
		return json.Marshal(d.IncomeIdeas)
	case KeyTransfers:
		return json.Marshal(d.Transfers)
	case KeyBudgetCategories:
		return json.Marshal(d.BudgetCategories)
	case KeyFrequentItems:
		return json.Marshal(d.FrequentItems)
	case KeySettings:
		return json.Marshal(d.Settings)
	}
	return nil, fmt.Errorf("unknown key %q", k)
}

func decode(d *core.Data, k Key, raw []byte) error {
	switch k {
	case KeyTransactions:
		return json.Unmarshal(raw, &d.Transactions)
	case KeyAccounts:
		return json.Unmarshal(raw, &d.Accounts)
	case KeyReminders:
		return json.Unmarshal(raw, &d.Reminders)
	case KeyPlannedExpenses:
		return json.Unmarshal(raw, &d.PlannedExpenses)
	case KeyIncomeIdeas:
		return json.Unmarshal(raw, &d.IncomeIdeas)
	case KeyTransfers:
		return json.Unmarshal(raw, &d.Transfers)
	case KeyBudgetCategories:
		return json.Unmarshal(raw, &d.BudgetCategories)
	case KeyFrequentItems:
		return json.Unmarshal(raw, &d.FrequentItems)
	case KeySettings:
		return json.Unmarshal(raw, &d.Settings)
	}
	return fmt.Errorf("unknown key %q", k)
}

func reset(d *core.Data, k Key) error {
	switch k {
	case KeyTransactions:
		d.Transactions = []core.Transaction{}
	case KeyAccounts:
		d.Accounts = []core.Account{}
	case KeyReminders:
		d.Reminders = []core.Reminder{}
	case KeyPlannedExpenses:
		d.PlannedExpenses = []core.PlannedExpense{}
	case KeyIncomeIdeas:
		d.IncomeIdeas = []core.IncomeIdea{}
	case KeyTransfers:
		d.Transfers = []core.Transfer{}
	case KeyBudgetCategories:
		d.BudgetCategories = []core.BudgetCategory{}
	case KeyFrequentItems:
		d.FrequentItems = map[string]int{}
	case KeySettings:
		d.Settings = core.DefaultSettings()
	default:
		return fmt.Errorf("unknown key %q", k)
	}
	return nil
}

func sortedKeys(m map[Key]bool) []Key {
	return slices.Sorted(maps.Keys(m))
}
