package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ore/internal/amqp"
	"ore/internal/seed"
	"ore/internal/services"
	"ore/internal/storage"
	"ore/internal/store"
	"ore/internal/store/memory"
)

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// composite pairs a reader with an event-publishing writer.
type composite struct {
	store.TimesheetReader
	store.EntryWriter
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	switch config.Type {
	case MemoryBackend:
		return f.createMemoryBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	st := memory.New(seed.Timesheets())

	publisher, closePublisher := f.initPublisher(config)
	service := services.NewTimesheetService(st, publisher)

	f.logger.Info("Initialized memory backend", "amqp_enabled", publisher != nil)

	return &Result{
		Backend: composite{TimesheetReader: st, EntryWriter: service},
		Cleanup: closePublisher,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	repo, err := storage.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if err := repo.SeedIfEmpty(ctx, seed.Timesheets()); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to seed SQLite repository: %w", err)
	}

	publisher, closePublisher := f.initPublisher(config)
	service := services.NewTimesheetService(repo, publisher)

	cleanup := func() error {
		if closePublisher != nil {
			if err := closePublisher(); err != nil {
				f.logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		return repo.Close()
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{
		Backend: composite{TimesheetReader: repo, EntryWriter: service},
		Cleanup: cleanup,
	}, nil
}

// initPublisher connects to AMQP when configured. Failures are logged and
// skipped so the API keeps working without the broker.
func (f *DefaultFactory) initPublisher(config Config) (services.EventPublisher, CleanupFunc) {
	if config.AMQPURL == "" {
		return nil, nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		return nil, nil
	}

	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, client.Close
}
