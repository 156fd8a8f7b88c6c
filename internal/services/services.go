// Package services implements the operations that change the tracker's
// records: money movement in LedgerService, advisory records and budgets
// in PlannerService.
package services

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// Option configures a service.
type Option func(*deps)

type deps struct {
	store     *store.Store
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
}

// WithPublisher sets where ledger events go. Events are dropped by default.
func WithPublisher(p events.Publisher) Option {
	return func(d *deps) {
		if p != nil {
			d.publisher = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// WithIDGenerator replaces the default UUIDv7 id generator.
func WithIDGenerator(newID func() string) Option {
	return func(d *deps) { d.newID = newID }
}

func newDeps(s *store.Store, component string, opts []Option) deps {
	d := deps{
		store:     s,
		publisher: events.Nop{},
		logger:    log.Discard(),
		now:       time.Now,
		newID:     NewID,
	}
	for _, opt := range opts {
		opt(&d)
	}
	d.logger = d.logger.WithComponent(component)
	return d
}

// NewID returns a time ordered unique id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// publish is best effort: the change is already stored.
func (d deps) publish(ctx context.Context, e events.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = d.now()
	}
	if err := d.publisher.Publish(ctx, e); err != nil {
		d.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldOperation, log.OpPublish,
			log.FieldEventType, e.Type,
			log.FieldRecordID, e.RecordID,
			log.FieldError, err)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// removeByID drops the element whose id matches and reports whether one did.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := slices.IndexFunc(items, func(v T) bool { return idOf(v) == id })
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}
