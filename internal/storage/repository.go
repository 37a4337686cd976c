package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budget/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SQLiteRepository persists users, transactions and the activity log.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("SQLite repository ready", "path", dbPath)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (core.User, bool, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	return userLookup(row, err)
}

func (r *SQLiteRepository) FindUserByFullname(ctx context.Context, fullname string) (core.User, bool, error) {
	row, err := r.queries.GetUserByFullname(ctx, fullname)
	return userLookup(row, err)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row, err := r.queries.CreateUser(ctx, CreateUserParams{
		Email:        u.Email,
		Fullname:     u.Fullname,
		PasswordHash: u.PasswordHash,
		CreatedAt:    createdAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return core.User{}, mapUniqueViolation(err)
	}
	return toCoreUser(row)
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      t.OwnerID,
		Amount:      t.Amount.String(),
		Date:        t.Date.String(),
		Category:    t.Category,
		Type:        string(t.Type),
		Description: t.Description,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", row.ID, "user_id", row.UserID)
	return toCoreTransaction(row)
}

func (r *SQLiteRepository) FindTransaction(ctx context.Context, id int64) (core.Transaction, bool, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction %d: %w", id, err)
	}
	t, err := toCoreTransaction(row)
	if err != nil {
		return core.Transaction{}, false, err
	}
	return t, true, nil
}

func (r *SQLiteRepository) ListTransactionsByOwner(ctx context.Context, ownerID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByOwnerDateDesc(ctx context.Context, ownerID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByUserDateDesc(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByOwnerInRange(ctx context.Context, ownerID int64, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByUserInRange(ctx, ListTransactionsByUserInRangeParams{
		UserID:    ownerID,
		StartDate: start.String(),
		EndDate:   end.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions %s..%s: %w", start, end, err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, ownerID int64) error {
	n, err := r.queries.DeleteTransaction(ctx, DeleteTransactionParams{ID: id, UserID: ownerID})
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) RecordActivity(ctx context.Context, a core.Activity) error {
	err := r.queries.InsertActivity(ctx, InsertActivityParams{
		EventID:       a.EventID,
		Kind:          string(a.Kind),
		UserID:        a.OwnerID,
		TransactionID: a.TransactionID,
		Amount:        a.Amount.String(),
		Type:          string(a.Type),
		Category:      a.Category,
		Date:          a.Date.String(),
		OccurredAt:    a.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", a.EventID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListActivity(ctx context.Context, ownerID int64, limit int) ([]core.Activity, error) {
	// SQLite treats a negative LIMIT as unbounded
	n := int64(limit)
	if n <= 0 {
		n = -1
	}
	rows, err := r.queries.ListActivityByUser(ctx, ListActivityByUserParams{UserID: ownerID, Limit: n})
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := make([]core.Activity, 0, len(rows))
	for _, row := range rows {
		a, err := toCoreActivity(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func userLookup(row User, err error) (core.User, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, false, nil
	}
	if err != nil {
		return core.User{}, false, fmt.Errorf("get user: %w", err)
	}
	u, err := toCoreUser(row)
	if err != nil {
		return core.User{}, false, err
	}
	return u, true, nil
}

// mapUniqueViolation turns a users UNIQUE failure into the matching
// conflict error. Other errors pass through wrapped.
func mapUniqueViolation(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		switch msg := sqliteErr.Error(); {
		case strings.Contains(msg, "users.email"):
			return core.ErrEmailTaken
		case strings.Contains(msg, "users.fullname"):
			return core.ErrFullnameTaken
		}
		return fmt.Errorf("%w: %v", core.ErrConflict, err)
	}
	return fmt.Errorf("create user: %w", err)
}

func toCoreUser(row User) (core.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("user %d: parse created_at %q: %w", row.ID, row.CreatedAt, err)
	}
	return core.User{
		ID:           row.ID,
		Email:        row.Email,
		Fullname:     row.Fullname,
		PasswordHash: row.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

func toCoreTransaction(row Transaction) (core.Transaction, error) {
	amount, err := core.ParseAmount(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: parse amount %q: %w", row.ID, row.Amount, err)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: parse date %q: %w", row.ID, row.Date, err)
	}
	return core.Transaction{
		ID:          row.ID,
		OwnerID:     row.UserID,
		Amount:      amount,
		Date:        date,
		Category:    row.Category,
		Type:        core.TransactionType(row.Type),
		Description: row.Description,
	}, nil
}

func toCoreTransactions(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func toCoreActivity(row ActivityLog) (core.Activity, error) {
	amount, err := core.ParseAmount(row.Amount)
	if err != nil {
		return core.Activity{}, fmt.Errorf("activity %s: parse amount: %w", row.EventID, err)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Activity{}, fmt.Errorf("activity %s: parse date: %w", row.EventID, err)
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, row.OccurredAt)
	if err != nil {
		return core.Activity{}, fmt.Errorf("activity %s: parse occurred_at: %w", row.EventID, err)
	}
	return core.Activity{
		EventID:       row.EventID,
		Kind:          core.EventKind(row.Kind),
		OwnerID:       row.UserID,
		TransactionID: row.TransactionID,
		Amount:        amount,
		Type:          core.TransactionType(row.Type),
		Category:      row.Category,
		Date:          date,
		OccurredAt:    occurredAt,
	}, nil
}
