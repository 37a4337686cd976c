package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
)

// TransactionEventMessage is the wire form of a core.TransactionEvent. The
// message id lets consumers drop redeliveries.
type TransactionEventMessage struct {
	MessageID   string           `json:"messageId"`
	Kind        core.EventKind   `json:"kind"`
	Transaction core.Transaction `json:"transaction"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func NewTransactionEventMessage(ev core.TransactionEvent) *TransactionEventMessage {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return &TransactionEventMessage{
		MessageID:   uuid.NewString(),
		Kind:        ev.Kind,
		Transaction: ev.Transaction,
		OccurredAt:  occurredAt,
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Event converts the message back into its domain form.
func (m *TransactionEventMessage) Event() core.TransactionEvent {
	return core.TransactionEvent{
		Kind:        m.Kind,
		Transaction: m.Transaction,
		OccurredAt:  m.OccurredAt,
	}
}

// TransactionEventMessageFromJSON decodes and validates a message body.
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.MessageID == "" {
		return nil, errors.New("message id is missing")
	}
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	if msg.Transaction.ID <= 0 || msg.Transaction.OwnerID <= 0 {
		return nil, errors.New("transaction id and owner are required")
	}
	return &msg, nil
}
