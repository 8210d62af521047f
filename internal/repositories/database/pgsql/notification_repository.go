package pgsql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// staleClaimAfter returns processing jobs to the queue when their worker died mid-delivery.
const staleClaimAfter = 5 * time.Minute

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationOutbox {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationOutbox = (*PgxNotificationRepository)(nil)

const notificationColumns = `
	job_id, kind, recipient, payload, status, attempts, next_attempt_at, last_error, created_at, updated_at`

func toDomainNotificationJob(m models.NotificationJob) domain.NotificationJob {
	job := domain.NotificationJob{
		JobID:         m.JobID,
		Kind:          domain.NotificationKind(m.Kind),
		Recipient:     m.Recipient,
		Payload:       json.RawMessage(m.Payload),
		Status:        domain.NotificationJobStatus(m.Status),
		Attempts:      m.Attempts,
		NextAttemptAt: m.NextAttemptAt,
		CreatedAt:     m.CreatedAt,
	}
	if m.LastError != nil {
		job.LastError = *m.LastError
	}
	return job
}

func (r *PgxNotificationRepository) EnqueueJob(ctx context.Context, job domain.NotificationJob) error {
	query := `
		INSERT INTO notification_jobs (job_id, kind, recipient, payload, status, attempts, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		job.JobID,
		string(job.Kind),
		job.Recipient,
		[]byte(job.Payload),
		string(job.Status),
		job.Attempts,
		job.NextAttemptAt,
		job.CreatedAt,
	)
	if err != nil {
		return apperrors.Internal("failed to enqueue notification", err)
	}
	return nil
}

// ClaimDueJobs flips due jobs to processing in one statement. SKIP LOCKED lets several
// workers poll the same table without handing out a job twice.
func (r *PgxNotificationRepository) ClaimDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.NotificationJob, error) {
	query := `
		UPDATE notification_jobs
		SET status = 'processing', updated_at = $1
		WHERE job_id IN (
			SELECT job_id FROM notification_jobs
			WHERE (status = 'pending' AND next_attempt_at <= $1)
				OR (status = 'processing' AND updated_at < $3)
			ORDER BY next_attempt_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + notificationColumns + `;`

	rows, err := r.Pool.Query(ctx, query, now, limit, now.Add(-staleClaimAfter))
	if err != nil {
		return nil, apperrors.Internal("failed to claim notification jobs", err)
	}
	defer rows.Close()
	modelJobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.NotificationJob])
	if err != nil {
		return nil, apperrors.Internal("failed to collect notification jobs", err)
	}

	jobs := make([]domain.NotificationJob, len(modelJobs))
	for i, m := range modelJobs {
		jobs[i] = toDomainNotificationJob(m)
	}
	return jobs, nil
}

func (r *PgxNotificationRepository) MarkDelivered(ctx context.Context, jobID string, now time.Time) error {
	query := `
		UPDATE notification_jobs
		SET status = 'delivered', attempts = attempts + 1, last_error = NULL, updated_at = $2
		WHERE job_id = $1;
	`
	if _, err := r.Pool.Exec(ctx, query, jobID, now); err != nil {
		return apperrors.Internal("failed to mark notification delivered", err)
	}
	return nil
}

// MarkRetry counts the failed attempt and either reschedules the job with linear backoff
// or parks it as failed once attempts are exhausted.
func (r *PgxNotificationRepository) MarkRetry(ctx context.Context, job domain.NotificationJob, deliveryErr error, now time.Time) error {
	job.Attempts++
	status := domain.JobPending
	if job.Exhausted() {
		status = domain.JobFailed
	}
	var lastError *string
	if deliveryErr != nil {
		msg := deliveryErr.Error()
		lastError = &msg
	}

	query := `
		UPDATE notification_jobs
		SET status = $2, attempts = $3, next_attempt_at = $4, last_error = $5, updated_at = $6
		WHERE job_id = $1;
	`
	_, err := r.Pool.Exec(ctx, query, job.JobID, string(status), job.Attempts, now.Add(job.RetryDelay()), lastError, now)
	if err != nil {
		return apperrors.Internal("failed to reschedule notification", err)
	}
	return nil
}
