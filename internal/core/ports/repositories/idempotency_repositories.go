package repositories

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// IdempotencyRepository stores responses keyed by user and Idempotency-Key.
type IdempotencyRepository interface {
	// Reserve claims (userID, key) for a new request. When the key already exists the stored
	// record is returned with reserved=false.
	Reserve(ctx context.Context, userID, key, requestHash string) (reserved bool, existing *domain.IdempotencyRecord, err error)

	// Complete stores the response for a reserved key.
	Complete(ctx context.Context, userID, key string, statusCode int, body []byte) error

	// Release drops a reservation so the request can be retried, used when the handler failed
	// without producing a cacheable response.
	Release(ctx context.Context, userID, key string) error
}
