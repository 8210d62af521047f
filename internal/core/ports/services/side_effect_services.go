package services

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// NotificationDispatcher queues a user notification. Delivery is at-least-once and
// happens after the ledger commit, never inside it.
type NotificationDispatcher interface {
	Enqueue(ctx context.Context, kind domain.NotificationKind, recipient string, payload map[string]any) error
}

// AuditSink appends an audit event. Failures must never affect the ledger.
type AuditSink interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}
