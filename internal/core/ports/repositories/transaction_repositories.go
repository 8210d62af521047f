package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ledger records
type TransactionReader interface {
	// FindTransactionByID retrieves a single record.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// ListTransactionsByAccount returns records touching accountID, newest first,
	// and the token for the next page (nil when there are no more).
	ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error)

	// ListScheduledByUser returns the scheduled records created by userID, soonest first.
	ListScheduledByUser(ctx context.Context, userID string) ([]domain.TransactionRecord, error)

	// FindDueScheduledPayments returns ids of scheduled records due at or before now.
	FindDueScheduledPayments(ctx context.Context, now time.Time, limit int) ([]string, error)
}

// TransactionWriter defines the ledger writes performed inside a transaction scope.
type TransactionWriter interface {
	// InsertTransactionRecord appends an immutable record and returns it with its assigned sequence.
	InsertTransactionRecord(ctx context.Context, tx pgx.Tx, record domain.TransactionRecord) (*domain.TransactionRecord, error)

	// GetTransactionForUpdate returns the record locked for the lifetime of tx.
	GetTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.TransactionRecord, error)

	// UpdateTransactionStatus moves a record from one status to another. It fails with
	// apperrors.ErrInvalidState when the transition is not allowed or the stored status is not from.
	UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus, processedAt *time.Time) error
}

// TransactionRepositoryFacade combines all transaction record interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
