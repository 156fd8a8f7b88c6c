package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// FormatVersion is written into every export bundle.
const FormatVersion = "1.0"

// Bundle is the export format: the full store plus metadata.
type Bundle struct {
	Exported time.Time `json:"exported"`
	Version  string    `json:"version"`
	Data     core.Data `json:"data"`
}

// Export snapshots the store. It never mutates anything.
func (m *Manager) Export() Bundle {
	return Bundle{Exported: m.now().UTC(), Version: FormatVersion, Data: m.store.Snapshot()}
}

// WriteExport writes the export bundle as indented JSON.
func (m *Manager) WriteExport(ctx context.Context, w io.Writer) error {
	b := m.Export()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	m.logger.InfoContext(ctx, "Data exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(b.Data.Transactions))
	return nil
}

// BackupFileName names an export taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("finance-tracker-backup-%s.json", t.UTC().Format(core.DateFormat))
}

// StorageInfo summarises what the store holds.
type StorageInfo struct {
	Transactions    int
	Accounts        int
	Reminders       int
	PlannedExpenses int
	IncomeIdeas     int
	Transfers       int
	// Bytes is the size of the serialised data.
	Bytes    int
	Location string
}

// KB renders Bytes in kilobytes with two decimals.
func (s StorageInfo) KB() string {
	return fmt.Sprintf("%.2f KB", float64(s.Bytes)/1024)
}

func (m *Manager) StorageInfo() (StorageInfo, error) {
	d := m.store.Snapshot()
	raw, err := json.Marshal(d)
	if err != nil {
		return StorageInfo{}, fmt.Errorf("measure data: %w", err)
	}
	return StorageInfo{
		Transactions:    len(d.Transactions),
		Accounts:        len(d.Accounts),
		Reminders:       len(d.Reminders),
		PlannedExpenses: len(d.PlannedExpenses),
		IncomeIdeas:     len(d.IncomeIdeas),
		Transfers:       len(d.Transfers),
		Bytes:           len(raw),
		Location:        m.location,
	}, nil
}
