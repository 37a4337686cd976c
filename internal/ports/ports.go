// Package ports declares the collaborators the services depend on.
//
// Lookups return a found flag alongside the value so the absent case is
// handled explicitly at every call site.
package ports

import (
	"context"

	"budget/internal/core"
)

type (
	// TransactionStore is the durable collection of transactions.
	TransactionStore interface {
		// ListTransactionsByOwner returns every transaction of the owner in insertion order.
		ListTransactionsByOwner(ctx context.Context, ownerID int64) ([]core.Transaction, error)
		// ListTransactionsByOwnerDateDesc returns the owner's transactions most recent first;
		// transactions on the same day are ordered by descending id.
		ListTransactionsByOwnerDateDesc(ctx context.Context, ownerID int64) ([]core.Transaction, error)
		// ListTransactionsByOwnerInRange returns the owner's transactions dated within
		// [start, end], both inclusive, ordered like ListTransactionsByOwnerDateDesc.
		ListTransactionsByOwnerInRange(ctx context.Context, ownerID int64, start, end core.Date) ([]core.Transaction, error)
		FindTransaction(ctx context.Context, id int64) (core.Transaction, bool, error)
		// SaveTransaction stores a new transaction and returns it with its assigned id.
		SaveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// DeleteTransaction removes the transaction only if it belongs to ownerID.
		// It returns core.ErrTransactionNotFound when no such row exists.
		DeleteTransaction(ctx context.Context, id, ownerID int64) error
	}

	UserDirectory interface {
		FindUserByEmail(ctx context.Context, email string) (core.User, bool, error)
	}

	UserStore interface {
		UserDirectory
		FindUserByFullname(ctx context.Context, fullname string) (core.User, bool, error)
		// CreateUser returns core.ErrEmailTaken or core.ErrFullnameTaken on
		// uniqueness violations.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
	}

	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, ev core.TransactionEvent) error
	}

	ActivityLog interface {
		// RecordActivity stores a. Recording the same EventID twice is a no-op.
		RecordActivity(ctx context.Context, a core.Activity) error
		// ListActivity returns the owner's latest activity, newest first.
		ListActivity(ctx context.Context, ownerID int64, limit int) ([]core.Activity, error)
	}
)
