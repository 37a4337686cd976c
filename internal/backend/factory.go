package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/memory"
	"budget/internal/ports"
	"budget/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// store is what every concrete backend provides.
type store interface {
	ports.TransactionStore
	ports.UserStore
	ports.ActivityLog
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		s       store
		ready   = func(context.Context) error { return nil }
		closers []func() error
	)

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		s, ready = repo, repo.Ping
		closers = append(closers, repo.Close)
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		s = memory.New()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	users := cache.NewUserStore(s, config.UserCacheSize, config.UserCacheTTL)
	manager := cache.NewManager()
	manager.Register(users.Cleaner())
	manager.StartCleanup(config.UserCacheTTL)

	result := &BackendResult{
		Transactions: s,
		Users:        users,
		Activity:     s,
		Ready:        ready,
	}

	if config.AMQPURL != "" {
		client, err := amqp.DialWithRetry(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.AMQPDialAttempts)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			result.Events = client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = func() error {
		manager.Stop()
		var errs []error
		// Release in reverse order of acquisition
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Backend ready",
		"type", config.Type,
		"events_enabled", result.Events != nil,
		"user_cache_size", config.UserCacheSize)
	return result, nil
}
