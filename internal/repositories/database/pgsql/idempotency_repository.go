package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxIdempotencyRepository struct {
	BaseRepository
}

func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepository {
	return &PgxIdempotencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IdempotencyRepository = (*PgxIdempotencyRepository)(nil)

// staleReservationAfter is how long a reservation without a stored response blocks its key.
// Past it the owning request is assumed lost and the key can be reserved again.
const staleReservationAfter = 5 * time.Minute

// Reserve inserts the key or, when it already exists, returns the stored record. A stale
// reservation that never stored a response is taken over.
func (r *PgxIdempotencyRepository) Reserve(ctx context.Context, userID, key, requestHash string) (bool, *domain.IdempotencyRecord, error) {
	insert := `
		INSERT INTO idempotency_keys (user_id, idem_key, request_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, idem_key) DO UPDATE
			SET request_hash = EXCLUDED.request_hash, created_at = EXCLUDED.created_at
			WHERE idempotency_keys.status_code IS NULL AND idempotency_keys.created_at < $5;
	`
	now := time.Now()
	cmdTag, err := r.Pool.Exec(ctx, insert, userID, key, requestHash, now, now.Add(-staleReservationAfter))
	if err != nil {
		return false, nil, apperrors.Internal("failed to reserve idempotency key", err)
	}
	if cmdTag.RowsAffected() == 1 {
		return true, nil, nil
	}

	query := `
		SELECT user_id, idem_key, request_hash, status_code, response_body, created_at
		FROM idempotency_keys
		WHERE user_id = $1 AND idem_key = $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, key)
	if err != nil {
		return false, nil, apperrors.Internal("failed to read idempotency key", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.IdempotencyKey])
	if err != nil {
		return false, nil, apperrors.Internal("failed to collect idempotency key", err)
	}

	record := &domain.IdempotencyRecord{
		UserID:       m.UserID,
		Key:          m.Key,
		RequestHash:  m.RequestHash,
		ResponseBody: m.ResponseBody,
		CreatedAt:    m.CreatedAt,
	}
	if m.StatusCode != nil {
		record.StatusCode = *m.StatusCode
	}
	return false, record, nil
}

func (r *PgxIdempotencyRepository) Complete(ctx context.Context, userID, key string, statusCode int, body []byte) error {
	query := `
		UPDATE idempotency_keys
		SET status_code = $3, response_body = $4
		WHERE user_id = $1 AND idem_key = $2;
	`
	if _, err := r.Pool.Exec(ctx, query, userID, key, statusCode, body); err != nil {
		return apperrors.Internal("failed to store idempotent response", err)
	}
	return nil
}

func (r *PgxIdempotencyRepository) Release(ctx context.Context, userID, key string) error {
	query := `DELETE FROM idempotency_keys WHERE user_id = $1 AND idem_key = $2 AND status_code IS NULL;`
	if _, err := r.Pool.Exec(ctx, query, userID, key); err != nil {
		return apperrors.Internal("failed to release idempotency key", err)
	}
	return nil
}
