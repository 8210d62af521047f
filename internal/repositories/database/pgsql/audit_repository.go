package pgsql

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// AppendAuditEvent inserts an audit row. The table has no UPDATE or DELETE path.
func (r *PgxAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return apperrors.Internal("failed to encode audit data", err)
	}
	m := models.AuditLog{
		AuditID:   event.AuditID,
		EventType: string(event.EventType),
		UserID:    event.UserID,
		EntityID:  event.EntityID,
		Data:      data,
		CreatedAt: event.CreatedAt,
	}
	query := `
		INSERT INTO audit_logs (audit_id, event_type, user_id, entity_id, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := r.Pool.Exec(ctx, query, m.AuditID, m.EventType, m.UserID, m.EntityID, m.Data, m.CreatedAt); err != nil {
		return apperrors.Internal("failed to append audit event", err)
	}
	return nil
}
