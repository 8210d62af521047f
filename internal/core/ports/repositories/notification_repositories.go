package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// NotificationOutbox stores notification jobs until a worker delivers them.
type NotificationOutbox interface {
	// EnqueueJob inserts a pending job.
	EnqueueJob(ctx context.Context, job domain.NotificationJob) error

	// ClaimDueJobs marks up to limit pending jobs whose next attempt is due as processing
	// and returns them. Rows locked by another worker are skipped.
	ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.NotificationJob, error)

	// MarkDelivered records a successful delivery.
	MarkDelivered(ctx context.Context, jobID string, now time.Time) error

	// MarkRetry records a failed attempt, moving the job back to pending for nextAttempt
	// or to failed when attempts are exhausted.
	MarkRetry(ctx context.Context, job domain.NotificationJob, deliveryErr error, now time.Time) error
}
