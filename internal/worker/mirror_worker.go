// Package worker keeps the spreadsheet mirror in step with the ledger.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/events"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	"fintrack/internal/store"
)

// MirrorWorker rewrites the spreadsheet mirror from the record store.
// The store is reloaded before every write so changes made by other
// processes are picked up.
type MirrorWorker struct {
	store    *store.Store
	insights *insights.Engine
	writer   sheets.SnapshotWriter
	logger   *log.Logger

	mu       sync.Mutex
	lastSync time.Time
	synced   int
}

func NewMirrorWorker(s *store.Store, writer sheets.SnapshotWriter, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		store:    s,
		insights: insights.NewEngine(s),
		writer:   writer,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Caches exposes the insight caches for periodic cleanup.
func (w *MirrorWorker) Caches() []cache.Cleaner {
	return w.insights.Caches()
}

// HandleEvent processes one ledger event from the queue.
func (w *MirrorWorker) HandleEvent(ctx context.Context, e events.Event) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventType, e.Type,
		log.FieldRecordID, e.RecordID)

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("mirror after %s: %w", e.Type, err)
	}
	return nil
}

// Sync reloads the store and rewrites every mirror tab.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	if err := w.store.Reload(ctx); err != nil {
		return fmt.Errorf("reload store: %w", err)
	}
	d := w.store.Snapshot()
	tabs := sheets.Tabs(d, insights.TrendSeries(d, insights.DefaultTrendMonths))
	tabs = append(tabs, sheets.Tab{
		Name: sheets.TabBudgets,
		Rows: sheets.BudgetRows(w.insights.BudgetSummary(w.insights.CurrentMonth())),
	})

	if err := w.writer.WriteSnapshot(ctx, tabs); err != nil {
		w.logger.ErrorContext(ctx, "Failed to write mirror", log.FieldError, err)
		return fmt.Errorf("write snapshot: %w", err)
	}

	w.mu.Lock()
	w.lastSync = time.Now()
	w.synced++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Mirror updated",
		log.FieldOperation, log.OpSync,
		log.FieldCount, len(d.Transactions))
	return nil
}

// StartupSync writes the mirror once, so changes made while the worker
// was down are not lost.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Running startup mirror sync")
	return w.Sync(ctx)
}

// RunPeriodic re-syncs every interval until ctx is done. It backs up the
// event path in case messages are lost.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.WarnContext(ctx, "Periodic mirror sync failed", log.FieldError, err)
			}
		}
	}
}

// Stats reports how many syncs completed and when the last one did.
func (w *MirrorWorker) Stats() (int, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.synced, w.lastSync
}
