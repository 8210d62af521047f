package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by a user, oldest first.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus changes the lifecycle status of an account within a transaction.
	UpdateAccountStatus(ctx context.Context, tx pgx.Tx, accountID string, status domain.AccountStatus, userID string, now time.Time) error
}

// AccountLedgerSupport defines the balance primitives used inside a transaction scope.
// Balances may only change through these methods.
type AccountLedgerSupport interface {
	// GetForUpdate returns the account locked for the lifetime of tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// AdjustBalance applies delta to the balance and returns the new balance.
	// It rejects any write that would leave the balance below zero or below the held amount.
	AdjustBalance(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error)

	// AdjustHold applies delta to the hold amount, keeping it within [0, balance].
	AdjustHold(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLedgerSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
