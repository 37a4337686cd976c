package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ports"
)

// ActivityWorker records consumed transaction events in the activity log.
type ActivityWorker struct {
	activity ports.ActivityLog
}

func NewActivityWorker(activity ports.ActivityLog) *ActivityWorker {
	return &ActivityWorker{activity: activity}
}

// HandleTransactionEvent records msg. A redelivered message is recorded
// once; returning an error makes the consumer requeue it.
func (w *ActivityWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	tx := msg.Transaction

	slog.InfoContext(ctx, "Processing transaction event",
		"message_id", msg.MessageID,
		"kind", msg.Kind,
		"transaction_id", tx.ID,
		"user_id", tx.OwnerID)

	err := w.activity.RecordActivity(ctx, core.Activity{
		EventID:       msg.MessageID,
		Kind:          msg.Kind,
		OwnerID:       tx.OwnerID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Category:      tx.Category,
		Date:          tx.Date,
		OccurredAt:    msg.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("record activity for %s: %w", msg.MessageID, err)
	}
	return nil
}
