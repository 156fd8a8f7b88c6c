// Package memory is a volatile store backend, used for tests and dry runs.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"fintrack/internal/store"
)

type Backend struct {
	mu     sync.Mutex
	values map[string][]byte
}

var (
	_ store.Backend    = (*Backend)(nil)
	_ store.BatchSaver = (*Backend)(nil)
)

func New() *Backend {
	return &Backend{values: map[string][]byte{}}
}

func (b *Backend) Load(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return slices.Clone(v), ok, nil
}

func (b *Backend) Save(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = slices.Clone(value)
	return nil
}

func (b *Backend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
	return nil
}

// SaveBatch applies all writes under one lock.
func (b *Backend) SaveBatch(_ context.Context, values map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range values {
		if v == nil {
			delete(b.values, k)
			continue
		}
		b.values[k] = slices.Clone(v)
	}
	return nil
}

// Keys lists the stored keys in order.
func (b *Backend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Sorted(maps.Keys(b.values))
}
