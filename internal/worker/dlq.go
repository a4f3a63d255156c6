package worker

// Jobs that exhaust MaxAttempts are parked in a Redis list per source queue,
// dlq:{original_queue}, for manual inspection.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobID         string          `json:"job_id"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339
	Attempts      int             `json:"attempts"`
}

// SendToDLQ parks job under dlq:{queue} with the reason it failed.
func SendToDLQ(ctx context.Context, store Store, queue string, job Job, reason string) error {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobID:         job.ID,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      job.Attempts,
	})
	if err != nil {
		return fmt.Errorf("dlq: marshal entry: %w", err)
	}
	if err := store.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		return fmt.Errorf("dlq: push %s: %w", DLQPrefix+queue, err)
	}
	return nil
}

// DLQLength returns the number of parked jobs for queue.
func DLQLength(ctx context.Context, store Store, queue string) (int64, error) {
	return store.LLen(ctx, DLQPrefix+queue).Result()
}
