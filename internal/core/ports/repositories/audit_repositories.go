package repositories

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// AuditRepository is the append-only store behind the audit sink.
type AuditRepository interface {
	AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error
}
