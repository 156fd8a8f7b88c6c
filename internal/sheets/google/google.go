// Package google writes the spreadsheet mirror to Google Sheets.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/log"
	ports "fintrack/internal/sheets"
)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// valuesAPI is the slice of the Sheets values API the client needs.
type valuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
}

type Client struct {
	values        valuesAPI
	spreadsheetID string
	logger        *log.Logger
}

// Ensure interface conformance
var _ ports.SnapshotWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(serviceValues{svc: svc}, cfg.SpreadsheetID, logger), nil
}

func newClient(values valuesAPI, spreadsheetID string, logger *log.Logger) *Client {
	return &Client{values: values, spreadsheetID: spreadsheetID, logger: logger}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over the file; GOOGLE_APPLICATION_CREDENTIALS is the last resort.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	credentialsFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if cfg.ServiceAccountJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case cfg.ServiceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case credentialsFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", credentialsFile)
		raw, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = raw
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteSnapshot clears and rewrites every tab. Tabs are written
// concurrently; the first failure cancels the rest.
func (c *Client) WriteSnapshot(ctx context.Context, tabs []ports.Tab) error {
	if c.values == nil {
		return errors.New("sheets service not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, tab := range tabs {
		g.Go(func() error {
			return c.writeTab(gctx, tab)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Snapshot mirrored", log.FieldOperation, log.OpSync, log.FieldCount, len(tabs))
	return nil
}

func (c *Client) writeTab(ctx context.Context, tab ports.Tab) error {
	if err := c.values.Clear(ctx, c.spreadsheetID, tab.Name); err != nil {
		return fmt.Errorf("clear %s: %w", tab.Name, err)
	}
	if len(tab.Rows) == 0 {
		return nil
	}
	rng := a1Range(tab.Name, len(tab.Rows), widest(tab.Rows))
	if err := c.values.Update(ctx, c.spreadsheetID, rng, tab.Rows); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	c.logger.DebugContext(ctx, "Tab written", log.FieldSheetsRef, rng, log.FieldCount, len(tab.Rows))
	return nil
}

func widest(rows [][]any) int {
	n := 0
	for _, r := range rows {
		n = max(n, len(r))
	}
	return max(n, 1)
}

// a1Range returns e.g. "Accounts!A1:E3" for 3 rows of 5 columns.
func a1Range(tab string, rows, cols int) string {
	return fmt.Sprintf("%s!A1:%s%d", tab, columnLetter(cols), rows)
}

// columnLetter converts a 1-based column index to A, B, ... Z, AA, AB.
func columnLetter(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s serviceValues) Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}
