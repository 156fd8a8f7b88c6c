// Package lifecycle handles bulk operations on the record store: CSV
// import, JSON export, selective clearing and storage statistics.
package lifecycle

import (
	"context"
	"time"

	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// Manager runs bulk operations against one store.
type Manager struct {
	store     *store.Store
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
	location  string
}

type Option func(*Manager)

func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.publisher = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithLocation describes where the backend keeps data, for StorageInfo.
func WithLocation(location string) Option {
	return func(m *Manager) { m.location = location }
}

// New returns a Manager. newID must produce unique record ids.
func New(s *store.Store, newID func() string, opts ...Option) *Manager {
	m := &Manager{
		store:     s,
		publisher: events.Nop{},
		logger:    log.Discard(),
		now:       time.Now,
		newID:     newID,
		location:  "memory",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent(log.ComponentLifecycle)
	return m
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	e.Timestamp = m.now()
	if err := m.publisher.Publish(ctx, e); err != nil {
		m.logger.WarnContext(ctx, "Failed to publish lifecycle event",
			log.FieldEventType, e.Type, log.FieldError, err)
	}
}
