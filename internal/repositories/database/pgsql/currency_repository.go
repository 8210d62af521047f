package pgsql

import (
	"context"
	"strings"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/SscSPs/mobile_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func (r *PgxCurrencyRepository) queryCurrencies(ctx context.Context, filterQuery string, args ...any) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `SELECT currency_code, symbol, name, precision FROM currencies `+filterQuery, args...)
	if err != nil {
		return nil, apperrors.Internal("failed to query currencies", err)
	}
	defer rows.Close()
	modelCurrencies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		return nil, apperrors.Internal("failed to collect currency rows", err)
	}
	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencies, err := r.queryCurrencies(ctx, "WHERE currency_code = $1", strings.ToUpper(currencyCode))
	if err != nil {
		return nil, err
	}
	if len(currencies) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &currencies[0], nil
}

func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return r.queryCurrencies(ctx, "ORDER BY currency_code")
}
