package backend

import (
	"context"
	"time"

	"budget/internal/ports"
)

type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (t BackendType) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

func (t BackendType) String() string {
	return string(t)
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is the set of collaborators the services are built from.
type BackendResult struct {
	Transactions ports.TransactionStore
	// Users is wrapped in the user directory cache.
	Users    ports.UserStore
	Activity ports.ActivityLog
	// Events is nil when no event bus is configured.
	Events ports.EventPublisher
	// Ready reports whether the backing store can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string

	// AMQP is optional; events are disabled when AMQPURL is empty
	AMQPURL          string
	AMQPExchange     string
	AMQPQueue        string
	AMQPDialAttempts int

	UserCacheSize int
	UserCacheTTL  time.Duration
}
