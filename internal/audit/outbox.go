package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueAudit is the asynq queue carrying audit writes.
	QueueAudit = "audit"
	// TaskTypeRecord is the task type for one audit entry write.
	TaskTypeRecord = "audit:record"
)

// Outbox enqueues entries on Redis via asynq for at-least-once delivery.
// The task ID is derived from the entry's replay key, so re-submitting the
// same mutation collapses onto one task.
type Outbox struct {
	client *asynq.Client
}

// NewOutbox constructs an Outbox.
func NewOutbox(client *asynq.Client) *Outbox {
	return &Outbox{client: client}
}

// Submit implements Sink.
func (o *Outbox) Submit(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal task payload: %w", err)
	}
	task := asynq.NewTask(TaskTypeRecord, payload)
	_, err = o.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueAudit),
		asynq.TaskID(entry.ReplayKey()),
		asynq.MaxRetry(10),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("audit: enqueue entry: %w", err)
	}
	return nil
}

// NewRecordTaskHandler returns the worker-side handler writing queued
// entries through the store. Malformed payloads are dropped; duplicate
// rows are acknowledged as replays; anything else retries.
func NewRecordTaskHandler(store Store, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var entry Entry
		if err := json.Unmarshal(t.Payload(), &entry); err != nil {
			if logger != nil {
				logger.Error("audit: malformed record task", slog.Any("error", err))
			}
			return asynq.SkipRetry
		}
		err := store.Append(ctx, entry)
		if errors.Is(err, ErrDuplicateEntry) {
			if logger != nil {
				logger.Debug("audit: replayed entry already stored", slog.String("record_id", entry.RecordID))
			}
			return nil
		}
		return err
	}
}
