package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/models"
	"github.com/SscSPs/mobile_banking_api/internal/utils/mapping"
	"github.com/SscSPs/mobile_banking_api/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger records.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, seq, from_account_id, to_account_id, biller_id, amount, currency_code,
	transaction_type, status, description, reference, scheduled_date, created_at, created_by, processed_at`

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.TransactionRecord, error) {
	rows, err := q.Query(ctx, "SELECT "+transactionColumns+" FROM transactions "+filterQuery, args...)
	if err != nil {
		return nil, apperrors.Internal("failed to query transactions", err)
	}
	defer rows.Close()
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.Internal("failed to collect transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) queryOneTransaction(ctx context.Context, q querier, filterQuery string, args ...any) (*domain.TransactionRecord, error) {
	records, err := r.queryTransactions(ctx, q, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &records[0], nil
}

// InsertTransactionRecord appends a record. seq is assigned by the database.
func (r *PgxTransactionRepository) InsertTransactionRecord(ctx context.Context, tx pgx.Tx, record domain.TransactionRecord) (*domain.TransactionRecord, error) {
	m := mapping.ToModelTransaction(record)
	query := `
		INSERT INTO transactions (
			transaction_id, from_account_id, to_account_id, biller_id, amount, currency_code,
			transaction_type, status, description, reference, scheduled_date, created_at, created_by, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING seq;
	`
	err := tx.QueryRow(ctx, query,
		m.TransactionID,
		m.FromAccountID,
		m.ToAccountID,
		m.BillerID,
		m.Amount,
		m.CurrencyCode,
		m.TransactionType,
		m.Status,
		m.Description,
		m.Reference,
		m.ScheduledDate,
		m.CreatedAt,
		m.CreatedBy,
		m.ProcessedAt,
	).Scan(&record.Sequence)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return nil, fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		case pgCheckViolation:
			return nil, apperrors.Validation("transaction %s violates ledger constraints", m.TransactionID)
		}
		return nil, apperrors.Internal("failed to insert transaction", err)
	}
	return &record, nil
}

func (r *PgxTransactionRepository) GetTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.TransactionRecord, error) {
	return r.queryOneTransaction(ctx, tx, "WHERE transaction_id = $1 FOR UPDATE", transactionID)
}

// UpdateTransactionStatus compares and sets the status in one statement.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus, processedAt *time.Time) error {
	if !from.CanTransitionTo(to) {
		return apperrors.InvalidState("cannot move transaction from %s to %s", from, to)
	}
	query := `
		UPDATE transactions
		SET status = $3, processed_at = $4
		WHERE transaction_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, transactionID, string(from), string(to), processedAt)
	if err != nil {
		return apperrors.Internal("failed to update transaction status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.InvalidState("transaction %s is no longer %s", transactionID, from)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	return r.queryOneTransaction(ctx, r.Pool, "WHERE transaction_id = $1", transactionID)
}

// ListTransactionsByAccount pages through an account's history using a keyset cursor on
// (created_at, seq), newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error) {
	conditions := []string{"(from_account_id = $1 OR to_account_id = $1)"}
	args := []any{accountID}
	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.StartDate != nil {
		addCondition("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("created_at <= $%d", *filter.EndDate)
	}
	if filter.Type != nil {
		addCondition("transaction_type = $%d", string(*filter.Type))
	}
	if filter.Status != nil {
		addCondition("status = $%d", string(*filter.Status))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		createdAt, seq, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.Validation("invalid nextToken")
		}
		args = append(args, createdAt, seq)
		conditions = append(conditions, fmt.Sprintf("(created_at, seq) < ($%d, $%d)", len(args)-1, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit+1)
	filterQuery := fmt.Sprintf("WHERE %s ORDER BY created_at DESC, seq DESC LIMIT $%d",
		strings.Join(conditions, " AND "), len(args))

	records, err := r.queryTransactions(ctx, r.Pool, filterQuery, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.Sequence)
		nextToken = &token
	}
	return records, nextToken, nil
}

func (r *PgxTransactionRepository) ListScheduledByUser(ctx context.Context, userID string) ([]domain.TransactionRecord, error) {
	return r.queryTransactions(ctx, r.Pool,
		"WHERE created_by = $1 AND status = $2 ORDER BY scheduled_date, seq",
		userID, string(domain.StatusScheduled))
}

// FindDueScheduledPayments only reads ids. Each payment is locked and re-checked when executed.
func (r *PgxTransactionRepository) FindDueScheduledPayments(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `
		SELECT transaction_id FROM transactions
		WHERE status = $1 AND scheduled_date <= $2
		ORDER BY scheduled_date, seq
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.StatusScheduled), now, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to query due payments", err)
	}
	defer rows.Close()
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.Internal("failed to collect due payments", err)
	}
	return ids, nil
}
