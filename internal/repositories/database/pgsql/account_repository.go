package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/SscSPs/mobile_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, user_id, name, account_type, currency_code, status, balance, hold_amount,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Account, error) {
	rows, err := q.Query(ctx, "SELECT "+accountColumns+" FROM accounts "+filterQuery, args...)
	if err != nil {
		return nil, apperrors.Internal("failed to query accounts", err)
	}
	defer rows.Close()
	modelAccounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.Internal("failed to collect account rows", err)
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

func (r *PgxAccountRepository) queryOneAccount(ctx context.Context, q querier, filterQuery string, args ...any) (*domain.Account, error) {
	accounts, err := r.queryAccounts(ctx, q, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &accounts[0], nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (
			account_id, user_id, name, account_type, currency_code, status, balance, hold_amount,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.Status,
		m.Balance,
		m.HoldAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		case pgForeignKeyViolation:
			return apperrors.Validation("unsupported currency %s", m.CurrencyCode)
		}
		return apperrors.Internal("failed to save account", err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID without locking it.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.queryOneAccount(ctx, r.Pool, "WHERE account_id = $1", accountID)
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	return r.queryAccounts(ctx, r.Pool, "WHERE user_id = $1 ORDER BY created_at, account_id", userID)
}

// GetForUpdate reads the account and holds its row lock until tx ends.
func (r *PgxAccountRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	return r.queryOneAccount(ctx, tx, "WHERE account_id = $1 FOR UPDATE", accountID)
}

// AdjustBalance applies delta in a single guarded statement. The guard mirrors the table's
// CHECK constraints. Callers check available funds under the row lock first, so a write the
// guard rejects is an invariant violation.
func (r *PgxAccountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = NOW()
		WHERE account_id = $1 AND balance + $2 >= hold_amount
		RETURNING balance;
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, accountID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgCheckViolation {
			return decimal.Zero, apperrors.Internal("balance invariant violated", fmt.Errorf("account %s cannot absorb %s: %w", accountID, delta, err))
		}
		return decimal.Zero, apperrors.Internal("failed to adjust balance", err)
	}
	return balance, nil
}

// AdjustHold applies delta to the held amount, keeping it within [0, balance].
func (r *PgxAccountRepository) AdjustHold(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET hold_amount = hold_amount + $2, last_updated_at = NOW()
		WHERE account_id = $1 AND hold_amount + $2 >= 0 AND hold_amount + $2 <= balance
		RETURNING hold_amount;
	`
	var hold decimal.Decimal
	err := tx.QueryRow(ctx, query, accountID, delta).Scan(&hold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgCheckViolation {
			return decimal.Zero, apperrors.Internal("hold invariant violated", fmt.Errorf("hold on account %s cannot change by %s: %w", accountID, delta, err))
		}
		return decimal.Zero, apperrors.Internal("failed to adjust hold", err)
	}
	return hold, nil
}

func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, tx pgx.Tx, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, string(status), now, userID)
	if err != nil {
		return apperrors.Internal("failed to update account status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
