package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
)

const redactedValue = "[REDACTED]"

var sensitiveAuditKeys = []string{"password", "token", "accountnumber", "cardnumber", "cvv", "pin", "secret"}

// auditSink persists audit events and mirrors them to product analytics.
type auditSink struct {
	BaseService
	repo    portsrepo.AuditRepository
	posthog *utils.PosthogClientWrapper
}

// NewAuditSink creates an audit sink. posthog may be nil.
func NewAuditSink(repo portsrepo.AuditRepository, posthog *utils.PosthogClientWrapper) portssvc.AuditSink {
	return &auditSink{repo: repo, posthog: posthog}
}

var _ portssvc.AuditSink = (*auditSink)(nil)

func (a *auditSink) Append(ctx context.Context, event domain.AuditEvent) error {
	event.Data = RedactAuditData(event.Data)
	if err := a.repo.AppendAuditEvent(ctx, event); err != nil {
		a.LogError(ctx, err, "Failed to append audit event", slog.String("event_type", string(event.EventType)))
		return err
	}
	if a.posthog != nil {
		a.posthog.Enqueue(event.UserID, strings.ToLower(string(event.EventType)), map[string]any{
			"entity_id": event.EntityID,
		})
	}
	return nil
}

// RedactAuditData returns a copy of data with sensitive values masked. Nested maps are walked.
func RedactAuditData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = redactedValue
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = RedactAuditData(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(key))
	for _, s := range sensitiveAuditKeys {
		if strings.HasSuffix(normalized, s) {
			return true
		}
	}
	return false
}
