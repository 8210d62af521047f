package services

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by userID.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts owned by userID.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// GetAccountBalance returns balance, hold and available balance of an account owned by userID.
	GetAccountBalance(ctx context.Context, userID string, accountID string) (*domain.AccountBalance, error)

	// GetTransactionHistory lists records touching an account owned by userID.
	GetTransactionHistory(ctx context.Context, userID string, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new zero-balance account for userID.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount closes an account. Only empty accounts without holds can be closed.
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
