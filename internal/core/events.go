package core

import "time"

const (
	EventTransactionCreated EventKind = "transaction.created"
	EventTransactionDeleted EventKind = "transaction.deleted"
)

type (
	EventKind string

	// TransactionEvent announces a change to a user's transactions.
	TransactionEvent struct {
		Kind        EventKind
		Transaction Transaction
		OccurredAt  time.Time
	}

	// Activity is the audit record kept for a TransactionEvent.
	Activity struct {
		EventID       string          `json:"eventId"`
		Kind          EventKind       `json:"kind"`
		OwnerID       int64           `json:"userId"`
		TransactionID int64           `json:"transactionId"`
		Amount        Money           `json:"amount"`
		Type          TransactionType `json:"type"`
		Category      string          `json:"category"`
		Date          Date            `json:"date"`
		OccurredAt    time.Time       `json:"occurredAt"`
	}
)

func (k EventKind) Valid() bool {
	return k == EventTransactionCreated || k == EventTransactionDeleted
}
