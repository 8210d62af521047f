package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
)

// NotificationWorker drains the notification outbox. Delivery is at-least-once: a job is
// only marked delivered after the sender succeeds.
type NotificationWorker struct {
	outbox    portsrepo.NotificationOutbox
	sender    Sender
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewNotificationWorker creates a worker polling every interval for up to batchSize jobs.
func NewNotificationWorker(outbox portsrepo.NotificationOutbox, sender Sender, logger *slog.Logger, interval time.Duration, batchSize int) *NotificationWorker {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &NotificationWorker{
		outbox:    outbox,
		sender:    sender,
		logger:    logger.With(slog.String("worker", "notifications")),
		interval:  interval,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) error {
	w.logger.Info("Notification worker started", slog.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.ProcessBatch(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("Notification worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessBatch claims due jobs and attempts each once. It returns the number delivered.
func (w *NotificationWorker) ProcessBatch(ctx context.Context) int {
	jobs, err := w.outbox.ClaimDueJobs(ctx, w.now(), w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("Failed to claim notification jobs", slog.String("error", err.Error()))
		}
		return 0
	}

	delivered := 0
	for _, job := range jobs {
		if w.deliver(ctx, job) {
			delivered++
		}
	}
	return delivered
}

func (w *NotificationWorker) deliver(ctx context.Context, job domain.NotificationJob) bool {
	logger := w.logger.With(slog.String("job_id", job.JobID), slog.String("kind", string(job.Kind)))

	sendErr := w.sender.Send(ctx, job)
	if sendErr == nil {
		if err := w.outbox.MarkDelivered(ctx, job.JobID, w.now()); err != nil {
			logger.Error("Failed to mark notification delivered", slog.String("error", err.Error()))
		}
		logger.Debug("Notification delivered")
		return true
	}

	logger.Warn("Notification delivery failed",
		slog.String("error", sendErr.Error()),
		slog.Int("attempts", job.Attempts+1),
	)
	if err := w.outbox.MarkRetry(ctx, job, sendErr, w.now()); err != nil {
		logger.Error("Failed to reschedule notification", slog.String("error", err.Error()))
	}
	if job.Attempts+1 >= domain.MaxNotificationAttempts {
		logger.Error("Notification marked as failed, attempts exhausted")
	}
	return false
}
