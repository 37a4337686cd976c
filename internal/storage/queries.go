package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type User struct {
	ID           int64
	Email        string
	Fullname     string
	PasswordHash string
	CreatedAt    string
}

type Transaction struct {
	ID          int64
	UserID      int64
	Amount      string
	Date        string
	Category    string
	Type        string
	Description string
}

type ActivityLog struct {
	ID            int64
	EventID       string
	Kind          string
	UserID        int64
	TransactionID int64
	Amount        string
	Type          string
	Category      string
	Date          string
	OccurredAt    string
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, fullname, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, email, fullname, password_hash, created_at
`

type CreateUserParams struct {
	Email        string
	Fullname     string
	PasswordHash string
	CreatedAt    string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.Fullname,
		arg.PasswordHash,
		arg.CreatedAt,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Fullname,
		&i.PasswordHash,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, fullname, password_hash, created_at FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Fullname,
		&i.PasswordHash,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByFullname = `-- name: GetUserByFullname :one
SELECT id, email, fullname, password_hash, created_at FROM users WHERE fullname = ?
`

func (q *Queries) GetUserByFullname(ctx context.Context, fullname string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByFullname, fullname)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Fullname,
		&i.PasswordHash,
		&i.CreatedAt,
	)
	return i, err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (user_id, amount, date, category, type, description)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, user_id, amount, date, category, type, description
`

type CreateTransactionParams struct {
	UserID      int64
	Amount      string
	Date        string
	Category    string
	Type        string
	Description string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID,
		arg.Amount,
		arg.Date,
		arg.Category,
		arg.Type,
		arg.Description,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Amount,
		&i.Date,
		&i.Category,
		&i.Type,
		&i.Description,
	)
	return i, err
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, user_id, amount, date, category, type, description FROM transactions WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Amount,
		&i.Date,
		&i.Category,
		&i.Type,
		&i.Description,
	)
	return i, err
}

const listTransactionsByUser = `-- name: ListTransactionsByUser :many
SELECT id, user_id, amount, date, category, type, description FROM transactions
WHERE user_id = ?
ORDER BY id
`

func (q *Queries) ListTransactionsByUser(ctx context.Context, userID int64) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByUser, userID)
}

const listTransactionsByUserDateDesc = `-- name: ListTransactionsByUserDateDesc :many
SELECT id, user_id, amount, date, category, type, description FROM transactions
WHERE user_id = ?
ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactionsByUserDateDesc(ctx context.Context, userID int64) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByUserDateDesc, userID)
}

const listTransactionsByUserInRange = `-- name: ListTransactionsByUserInRange :many
SELECT id, user_id, amount, date, category, type, description FROM transactions
WHERE user_id = ? AND date BETWEEN ? AND ?
ORDER BY date DESC, id DESC
`

type ListTransactionsByUserInRangeParams struct {
	UserID    int64
	StartDate string
	EndDate   string
}

func (q *Queries) ListTransactionsByUserInRange(ctx context.Context, arg ListTransactionsByUserInRangeParams) ([]Transaction, error) {
	return q.listTransactions(ctx, listTransactionsByUserInRange, arg.UserID, arg.StartDate, arg.EndDate)
}

func (q *Queries) listTransactions(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Amount,
			&i.Date,
			&i.Category,
			&i.Type,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ? AND user_id = ?
`

type DeleteTransactionParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertActivity = `-- name: InsertActivity :exec
INSERT OR IGNORE INTO activity_log (event_id, kind, user_id, transaction_id, amount, type, category, date, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertActivityParams struct {
	EventID       string
	Kind          string
	UserID        int64
	TransactionID int64
	Amount        string
	Type          string
	Category      string
	Date          string
	OccurredAt    string
}

func (q *Queries) InsertActivity(ctx context.Context, arg InsertActivityParams) error {
	_, err := q.db.ExecContext(ctx, insertActivity,
		arg.EventID,
		arg.Kind,
		arg.UserID,
		arg.TransactionID,
		arg.Amount,
		arg.Type,
		arg.Category,
		arg.Date,
		arg.OccurredAt,
	)
	return err
}

const listActivityByUser = `-- name: ListActivityByUser :many
SELECT id, event_id, kind, user_id, transaction_id, amount, type, category, date, occurred_at
FROM activity_log
WHERE user_id = ?
ORDER BY id DESC
LIMIT ?
`

type ListActivityByUserParams struct {
	UserID int64
	Limit  int64
}

func (q *Queries) ListActivityByUser(ctx context.Context, arg ListActivityByUserParams) ([]ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx, listActivityByUser, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActivityLog
	for rows.Next() {
		var i ActivityLog
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Kind,
			&i.UserID,
			&i.TransactionID,
			&i.Amount,
			&i.Type,
			&i.Category,
			&i.Date,
			&i.OccurredAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
