// Package memory keeps the spreadsheet mirror in process. It stands in for
// Google Sheets when no spreadsheet is configured and in tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"fintrack/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	tabs   map[string][][]any
	writes int
}

var _ sheets.SnapshotWriter = (*Store)(nil)

func New() *Store {
	return &Store{tabs: map[string][][]any{}}
}

// WriteSnapshot replaces each given tab. Tabs not mentioned are kept.
func (s *Store) WriteSnapshot(ctx context.Context, tabs []sheets.Tab) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tabs {
		s.tabs[t.Name] = cloneRows(t.Rows)
	}
	s.writes++
	return nil
}

// Tab returns a copy of the named tab's rows.
func (s *Store) Tab(name string) ([][]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[name]
	return cloneRows(rows), ok
}

// Writes counts completed snapshot writes.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func cloneRows(rows [][]any) [][]any {
	if rows == nil {
		return nil
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}
