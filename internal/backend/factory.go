package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"fintrack/internal/amqp"
	"fintrack/internal/events"
	"fintrack/internal/events/kafka"
	"fintrack/internal/log"
	"fintrack/internal/store/file"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case FileBackend:
		return f.createFileBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	b, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", log.FieldBackend, SQLiteBackend, "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend:  b,
		Cleanup:  b.Close,
		Location: config.SQLiteDBPath,
	}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	b, err := file.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}

	location := dataDir
	if abs, err := filepath.Abs(dataDir); err == nil {
		location = abs
	}
	f.logger.Info("Initialized file backend", log.FieldBackend, FileBackend, "data_directory", location)

	return &BackendResult{
		Backend:  b,
		Location: location,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend", log.FieldBackend, MemoryBackend)

	return &BackendResult{
		Backend:  memory.New(),
		Location: "memory",
	}, nil
}

// CreatePublisher implements Factory.CreatePublisher. An unreachable AMQP
// broker is not fatal: events are dropped and the ledger keeps working.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, config Config) (*PublisherResult, error) {
	switch config.Events {
	case "", NoEvents:
		return &PublisherResult{Publisher: events.Nop{}}, nil

	case AMQPEvents:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
			return &PublisherResult{Publisher: events.Nop{}}, nil
		}
		f.logger.Info("Initialized AMQP client",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return &PublisherResult{Publisher: client, Cleanup: client.Close}, nil

	case KafkaEvents:
		if len(config.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("no Kafka brokers configured")
		}
		p := kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
		f.logger.Info("Initialized Kafka publisher", "brokers", config.KafkaBrokers, "topic", config.KafkaTopic)
		return &PublisherResult{Publisher: p, Cleanup: p.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported events backend: %s", config.Events)
	}
}
