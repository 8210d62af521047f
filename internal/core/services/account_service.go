package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryWithTx
	txnRepo      portsrepo.TransactionReader
	currencyRepo portsrepo.CurrencyReader
	audit        portssvc.AuditSink
	runner       *AsyncRunner
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithCurrencyRepository adds currency repository dependency
func WithCurrencyRepository(repo portsrepo.CurrencyReader) ServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithAccountAudit adds the audit sink for account lifecycle events
func WithAccountAudit(sink portssvc.AuditSink, runner *AsyncRunner) ServiceOption {
	return func(s *accountService) {
		s.audit = sink
		s.runner = runner
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, txnRepo portsrepo.TransactionReader, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !req.AccountType.Valid() {
		return nil, apperrors.Validation("unknown account type %q", req.AccountType)
	}
	currencyCode := strings.ToUpper(req.CurrencyCode)

	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				err = apperrors.Validation("unsupported currency %s", currencyCode)
			}
			s.LogFailure(ctx, err, "Invalid currency code", slog.String("currency_code", currencyCode))
			return nil, err
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		AccountType:  req.AccountType,
		CurrencyCode: currencyCode,
		Status:       domain.AccountActive,
		Balance:      decimal.Zero,
		HoldAmount:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID))
	s.appendAudit(ctx, domain.AuditAccountCreated, userID, account.AccountID, map[string]any{
		"accountType": string(account.AccountType),
		"currency":    account.CurrencyCode,
	})
	return &account, nil
}

// GetAccountByID returns the account when userID owns it. Accounts of other users are
// reported as not found so their existence is not disclosed.
func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Account not found", slog.String("account_id", accountID))
			return nil, apperrors.NotFound("account %s", accountID)
		}
		s.LogError(ctx, err, "Failed to get account by ID", slog.String("account_id", accountID))
		return nil, err
	}
	if !account.IsOwnedBy(userID) {
		s.LogWarn(ctx, "Account requested by non-owner", slog.String("account_id", accountID))
		return nil, apperrors.NotFound("account %s", accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

// GetAccountBalance reads the committed balance. It takes no locks and never writes,
// so repeated calls without an intervening movement return the same values.
func (s *accountService) GetAccountBalance(ctx context.Context, userID string, accountID string) (*domain.AccountBalance, error) {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:        account.AccountID,
		Balance:          account.Balance,
		AvailableBalance: account.AvailableBalance(),
		HoldAmount:       account.HoldAmount,
		CurrencyCode:     account.CurrencyCode,
		LastUpdated:      account.LastUpdatedAt,
	}, nil
}

func (s *accountService) GetTransactionHistory(ctx context.Context, userID string, accountID string, filter domain.TransactionFilter) ([]domain.TransactionRecord, *string, error) {
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return nil, nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, nil, apperrors.Validation("startDate must not be after endDate")
	}
	filter.Limit = normalizeLimit(filter.Limit)

	records, next, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, filter)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, nil, err
	}
	return records, next, nil
}

// DeactivateAccount closes an account. The balance and hold must both be zero so no funds
// are stranded in a closed account.
func (s *accountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	err := runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		account, err := s.accountRepo.GetForUpdate(ctx, tx, accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("account %s", accountID)
			}
			return err
		}
		if !account.IsOwnedBy(userID) {
			return apperrors.NotFound("account %s", accountID)
		}
		if account.Status == domain.AccountInactive {
			return apperrors.InvalidState("account is already inactive")
		}
		if account.Status == domain.AccountFrozen {
			return apperrors.InvalidState("frozen accounts cannot be closed")
		}
		if !account.Balance.IsZero() || !account.HoldAmount.IsZero() {
			return apperrors.InvalidState("account still holds funds")
		}
		return s.accountRepo.UpdateAccountStatus(ctx, tx, accountID, domain.AccountInactive, userID, time.Now())
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	s.appendAudit(ctx, domain.AuditAccountDeactivated, userID, accountID, nil)
	return nil
}

func (s *accountService) appendAudit(ctx context.Context, eventType domain.AuditEventType, userID, entityID string, data map[string]any) {
	if s.audit == nil || s.runner == nil {
		return
	}
	event := domain.AuditEvent{
		AuditID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		EntityID:  entityID,
		Data:      data,
		CreatedAt: time.Now(),
	}
	s.runner.Go(ctx, "audit:"+string(eventType), func(ctx context.Context) error {
		return s.audit.Append(ctx, event)
	})
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
