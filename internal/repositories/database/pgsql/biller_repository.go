package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/SscSPs/mobile_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBillerRepository struct {
	BaseRepository
}

func newPgxBillerRepository(pool *pgxpool.Pool) portsrepo.BillerRepositoryFacade {
	return &PgxBillerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BillerRepositoryFacade = (*PgxBillerRepository)(nil)

const billerColumns = `biller_id, name, category, status, currency_code, created_at`

func (r *PgxBillerRepository) queryBillers(ctx context.Context, filterQuery string, args ...any) ([]domain.Biller, error) {
	rows, err := r.Pool.Query(ctx, "SELECT "+billerColumns+" FROM billers "+filterQuery, args...)
	if err != nil {
		return nil, apperrors.Internal("failed to query billers", err)
	}
	defer rows.Close()
	modelBillers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Biller])
	if err != nil {
		return nil, apperrors.Internal("failed to collect biller rows", err)
	}
	return mapping.ToDomainBillerSlice(modelBillers), nil
}

func (r *PgxBillerRepository) FindBillerByID(ctx context.Context, billerID string) (*domain.Biller, error) {
	billers, err := r.queryBillers(ctx, "WHERE biller_id = $1", billerID)
	if err != nil {
		return nil, err
	}
	if len(billers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &billers[0], nil
}

func (r *PgxBillerRepository) ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error) {
	if category != nil {
		return r.queryBillers(ctx, "WHERE category = $1 ORDER BY name", string(*category))
	}
	return r.queryBillers(ctx, "ORDER BY name")
}

// ListSavedBillers returns a user's bookmarks with the biller attached, newest first.
func (r *PgxBillerRepository) ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error) {
	query := `
		SELECT s.user_id, s.biller_id, s.nickname, s.customer_reference, s.created_at,
			b.name, b.category, b.status, b.currency_code, b.created_at
		FROM saved_billers s
		JOIN billers b ON b.biller_id = s.biller_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to query saved billers", err)
	}
	defer rows.Close()

	saved := []domain.SavedBiller{}
	for rows.Next() {
		var s models.SavedBiller
		var b models.Biller
		if err := rows.Scan(
			&s.UserID, &s.BillerID, &s.Nickname, &s.CustomerReference, &s.CreatedAt,
			&b.Name, &b.Category, &b.Status, &b.CurrencyCode, &b.CreatedAt,
		); err != nil {
			return nil, apperrors.Internal("failed to scan saved biller", err)
		}
		b.BillerID = s.BillerID
		biller := mapping.ToDomainBiller(b)
		saved = append(saved, domain.SavedBiller{
			UserID:            s.UserID,
			BillerID:          s.BillerID,
			Nickname:          s.Nickname,
			CustomerReference: s.CustomerReference,
			CreatedAt:         s.CreatedAt,
			Biller:            &biller,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("failed to iterate saved billers", err)
	}
	return saved, nil
}

func (r *PgxBillerRepository) SaveSavedBiller(ctx context.Context, saved domain.SavedBiller) error {
	m := mapping.ToModelSavedBiller(saved)
	query := `
		INSERT INTO saved_billers (user_id, biller_id, nickname, customer_reference, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.UserID, m.BillerID, m.Nickname, m.CustomerReference, m.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: biller %s is already saved", apperrors.ErrDuplicate, m.BillerID)
		case pgForeignKeyViolation:
			return apperrors.NotFound("biller %s", m.BillerID)
		}
		return apperrors.Internal("failed to save biller", err)
	}
	return nil
}

func (r *PgxBillerRepository) DeleteSavedBiller(ctx context.Context, userID, billerID string) error {
	query := `DELETE FROM saved_billers WHERE user_id = $1 AND biller_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, billerID)
	if err != nil {
		return apperrors.Internal("failed to remove saved biller", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
