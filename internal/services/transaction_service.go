package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budget/internal/core"
	"budget/internal/ports"
)

// TransactionService validates requests, enforces ownership and delegates
// aggregation to core.Summarize.
type TransactionService struct {
	transactions ports.TransactionStore
	users        ports.UserDirectory
	events       ports.EventPublisher
	now          func() time.Time
}

// NewTransactionService wires the service. events may be nil, in which case
// no change notifications are published.
func NewTransactionService(transactions ports.TransactionStore, users ports.UserDirectory, events ports.EventPublisher) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		users:        users,
		events:       events,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock used to default transaction dates.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// AddTransaction stores a new transaction owned by the user with userEmail.
// The date defaults to the current day when the draft has none.
func (s *TransactionService) AddTransaction(ctx context.Context, draft core.TransactionDraft, userEmail string) (core.Transaction, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return core.Transaction{}, err
	}

	typ, err := draft.Validate()
	if err != nil {
		return core.Transaction{}, err
	}

	date := draft.Date
	if date.IsEmpty() {
		date = core.DateOf(s.now())
	}

	saved, err := s.transactions.SaveTransaction(ctx, core.Transaction{
		OwnerID:     user.ID,
		Amount:      *draft.Amount,
		Date:        date,
		Category:    strings.TrimSpace(draft.Category),
		Type:        typ,
		Description: strings.TrimSpace(draft.Description),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", saved.ID,
		"user_id", user.ID,
		"type", saved.Type,
		"category", saved.Category,
		"amount", saved.Amount.String(),
		"date", saved.Date.String())

	s.publish(ctx, core.EventTransactionCreated, saved)
	return saved, nil
}

// ListAll returns the user's transactions, most recent first.
func (s *TransactionService) ListAll(ctx context.Context, userEmail string) ([]core.Transaction, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListTransactionsByOwnerDateDesc(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// ListByDateRange returns the user's transactions dated within [start, end].
// The range is validated before any lookup happens.
func (s *TransactionService) ListByDateRange(ctx context.Context, userEmail string, start, end core.Date) ([]core.Transaction, error) {
	if start.IsEmpty() || end.IsEmpty() {
		return nil, core.ErrMissingDate
	}
	if end.Before(start) {
		return nil, core.ErrInvertedRange
	}

	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListTransactionsByOwnerInRange(ctx, user.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	return txs, nil
}

// GetDashboardSummary summarizes every transaction of the user. Summaries
// are recomputed on each call.
func (s *TransactionService) GetDashboardSummary(ctx context.Context, userEmail string) (core.Summary, error) {
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return core.Summary{}, err
	}
	txs, err := s.transactions.ListTransactionsByOwnerDateDesc(ctx, user.ID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions: %w", err)
	}

	summary := core.Summarize(txs)
	slog.DebugContext(ctx, "Dashboard summary computed",
		"user_id", user.ID,
		"transactions", len(txs),
		"balance", summary.Balance.String())
	return summary, nil
}

// DeleteTransaction removes a transaction owned by the user. A transaction
// owned by someone else yields core.ErrNotOwner, distinct from
// core.ErrTransactionNotFound.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64, userEmail string) error {
	if id <= 0 {
		return core.ErrInvalidID
	}
	user, err := s.resolveUser(ctx, userEmail)
	if err != nil {
		return err
	}

	tx, found, err := s.transactions.FindTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("find transaction %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	if tx.OwnerID != user.ID {
		slog.WarnContext(ctx, "Delete of foreign transaction rejected",
			"id", id,
			"owner_id", tx.OwnerID,
			"user_id", user.ID)
		return core.ErrNotOwner
	}

	// Keyed by id and owner, so a concurrent delete surfaces as not found.
	if err := s.transactions.DeleteTransaction(ctx, id, user.ID); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", user.ID)
	s.publish(ctx, core.EventTransactionDeleted, tx)
	return nil
}

func (s *TransactionService) resolveUser(ctx context.Context, email string) (core.User, error) {
	email = core.NormalizeEmail(email)
	if email == "" {
		return core.User{}, core.ErrEmptyEmail
	}
	user, found, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return core.User{}, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return core.User{}, fmt.Errorf("%w: %s", core.ErrUserNotFound, email)
	}
	return user, nil
}

func (s *TransactionService) publish(ctx context.Context, kind core.EventKind, tx core.Transaction) {
	if s.events == nil {
		return
	}
	ev := core.TransactionEvent{Kind: kind, Transaction: tx, OccurredAt: s.now().UTC()}
	if err := s.events.PublishTransactionEvent(ctx, ev); err != nil {
		// Don't fail the request - the transaction is already stored
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind,
			"id", tx.ID,
			"error", err)
	}
}
