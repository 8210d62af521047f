package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/google/uuid"
)

// outboxDispatcher writes notifications to the outbox table. Delivery is done later by the
// notification worker, so a slow or failing channel never blocks a money movement.
type outboxDispatcher struct {
	BaseService
	outbox portsrepo.NotificationOutbox
	now    func() time.Time
}

// NewNotificationDispatcher creates a dispatcher backed by the outbox.
func NewNotificationDispatcher(outbox portsrepo.NotificationOutbox) portssvc.NotificationDispatcher {
	return &outboxDispatcher{outbox: outbox, now: time.Now}
}

var _ portssvc.NotificationDispatcher = (*outboxDispatcher)(nil)

func (d *outboxDispatcher) Enqueue(ctx context.Context, kind domain.NotificationKind, recipient string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}
	now := d.now()
	job := domain.NotificationJob{
		JobID:         uuid.NewString(),
		Kind:          kind,
		Recipient:     recipient,
		Payload:       body,
		Status:        domain.JobPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	if err := d.outbox.EnqueueJob(ctx, job); err != nil {
		d.LogError(ctx, err, "Failed to enqueue notification", slog.String("kind", string(kind)))
		return err
	}
	d.LogDebug(ctx, "Notification enqueued", slog.String("job_id", job.JobID), slog.String("kind", string(kind)))
	return nil
}
