package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/currency"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

type Config struct {
	// Storage
	DataBackend     string
	DataDir         string
	SQLiteDBPath    string
	CommitPolicy    string
	DefaultCurrency string

	LogLevel string

	// Ledger events
	EventsBackend string
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	KafkaBrokers  []string
	KafkaTopic    string

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Mirror worker
	SyncInterval         time.Duration
	SyncOnStartup        bool
	CacheCleanupInterval time.Duration
}

var (
	validBackends       = []string{"memory", "file", "sqlite"}
	validEventsBackends = []string{"none", "amqp", "kafka"}
)

func Load() *Config {
	cfg := &Config{
		DataBackend:     getEnv("DATA_BACKEND", "file"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		CommitPolicy:    getEnv("COMMIT_POLICY", "auto"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		EventsBackend: getEnv("EVENTS_BACKEND", "none"),
		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:     getEnv("AMQP_QUEUE", "ledger_events"),
		KafkaBrokers:  getEnvList("KAFKA_BROKERS"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "ledger_events"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		SyncInterval:         getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
		SyncOnStartup:        getEnvBool("SYNC_ON_STARTUP", true),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := store.ParseCommitPolicy(c.CommitPolicy); err != nil {
		errors = append(errors, fmt.Sprintf("invalid commit policy '%s': must be 'auto' or 'manual'", c.CommitPolicy))
	}

	if !currency.Known(c.DefaultCurrency) {
		errors = append(errors, fmt.Sprintf("unknown default currency '%s'", c.DefaultCurrency))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if !slices.Contains(validEventsBackends, c.EventsBackend) {
		errors = append(errors, fmt.Sprintf("invalid events backend '%s': must be one of %v", c.EventsBackend, validEventsBackends))
	}

	if c.EventsBackend == "amqp" && c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required when using amqp events backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.EventsBackend == "kafka" {
		if len(c.KafkaBrokers) == 0 {
			errors = append(errors, "at least one Kafka broker is required when using kafka events backend")
		}
		if c.KafkaTopic == "" {
			errors = append(errors, "Kafka topic cannot be empty when using kafka events backend")
		}
	}

	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if c.CacheCleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// MirrorEnabled reports whether a Google spreadsheet is configured.
func (c *Config) MirrorEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for part := range strings.SplitSeq(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
