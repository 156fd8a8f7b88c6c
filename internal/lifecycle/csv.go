package lifecycle

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// ImportResult counts the outcome of a CSV import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportCSV reads rows of date,description,amount,type after a header row
// and appends one transaction per valid row. Malformed rows are skipped.
// Imported transactions never change account balances.
func (m *Manager) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, err := readRows(r)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	err = m.store.Update(ctx, func(d *core.Data) error {
		res = ImportResult{}
		now := m.now()
		for _, row := range rows {
			tx, ok := m.rowToTransaction(row, d.Settings.DefaultCurrency)
			if !ok {
				res.Skipped++
				continue
			}
			tx.Timestamp = now
			d.Transactions = append(d.Transactions, tx)
			res.Imported++
		}
		return nil
	}, store.KeyTransactions)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import csv: %w", err)
	}

	m.logger.InfoContext(ctx, "CSV imported",
		log.FieldOperation, log.OpImport,
		log.FieldCount, res.Imported,
		"skipped", res.Skipped)
	if res.Imported > 0 {
		m.publish(ctx, events.Event{Type: events.DataImported})
	}
	return res, nil
}

// readRows returns every data row. Each line is parsed on its own so an
// unbalanced quote only costs its own row; such rows come back as nil and
// are counted as skipped. The first line is the header. Blank lines are
// ignored.
func readRows(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows [][]string
	header := true
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if header {
			header = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, parseLine(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

const maxLineBytes = 1 << 20

func parseLine(line string) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rec, err := cr.Read()
	if err != nil {
		return nil
	}
	return rec
}

func (m *Manager) rowToTransaction(row []string, currency string) (core.Transaction, bool) {
	if len(row) < 4 {
		return core.Transaction{}, false
	}
	date, err := core.ParseDate(strings.TrimSpace(row[0]))
	if err != nil {
		return core.Transaction{}, false
	}
	desc := strings.TrimSpace(row[1])
	amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil || amount.IsZero() {
		return core.Transaction{}, false
	}

	tx := core.Transaction{
		ID:       m.newID(),
		Amount:   amount.Abs(),
		Date:     date,
		Currency: currency,
	}
	switch core.TransactionType(strings.ToLower(strings.TrimSpace(row[3]))) {
	case core.IncomeTx:
		tx.Type = core.IncomeTx
		tx.Income = &core.IncomeDetails{Source: desc}
	case core.ExpenseTx:
		tx.Type = core.ExpenseTx
		tx.Expense = &core.ExpenseDetails{Category: "other", Item: desc, PaymentMethod: core.PayImported}
	default:
		return core.Transaction{}, false
	}
	if tx.Validate() != nil {
		return core.Transaction{}, false
	}
	return tx, true
}
