package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
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

// transferService is the transfer engine. It holds no state between calls: every
// operation borrows one transaction scope from the account repository, locks the rows
// it touches, validates, writes, and commits.
type transferService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryWithTx
	txnRepo      portsrepo.TransactionRepositoryFacade
	billerRepo   portsrepo.BillerReader
	currencyRepo portsrepo.CurrencyReader
	notifier     portssvc.NotificationDispatcher
	audit        portssvc.AuditSink
	runner       *AsyncRunner
	now          func() time.Time
}

// TransferServiceOption is a functional option for configuring the transfer service
type TransferServiceOption func(*transferService)

// WithBillerRepository adds the biller lookup used by bill payments
func WithBillerRepository(repo portsrepo.BillerReader) TransferServiceOption {
	return func(s *transferService) {
		s.billerRepo = repo
	}
}

// WithTransferCurrencyRepository enables currency precision checks on amounts
func WithTransferCurrencyRepository(repo portsrepo.CurrencyReader) TransferServiceOption {
	return func(s *transferService) {
		s.currencyRepo = repo
	}
}

// WithNotifier sets the dispatcher notified after each commit
func WithNotifier(n portssvc.NotificationDispatcher) TransferServiceOption {
	return func(s *transferService) {
		s.notifier = n
	}
}

// WithAuditSink sets the sink receiving an event after each commit
func WithAuditSink(a portssvc.AuditSink) TransferServiceOption {
	return func(s *transferService) {
		s.audit = a
	}
}

// WithAsyncRunner sets the runner used for post-commit side effects
func WithAsyncRunner(r *AsyncRunner) TransferServiceOption {
	return func(s *transferService) {
		s.runner = r
	}
}

// WithClock overrides time.Now, used by tests and the scheduler
func WithClock(now func() time.Time) TransferServiceOption {
	return func(s *transferService) {
		s.now = now
	}
}

// NewTransferService creates the transfer engine.
func NewTransferService(accountRepo portsrepo.AccountRepositoryWithTx, txnRepo portsrepo.TransactionRepositoryFacade, options ...TransferServiceOption) portssvc.TransferSvcFacade {
	svc := &transferService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.runner == nil {
		svc.runner = NewAsyncRunner(4)
	}
	return svc
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Validation("amount must be greater than zero")
	}
	return nil
}

// Transfer moves req.Amount from an account owned by userID to any other account.
func (s *transferService) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.TransactionRecord, error) {
	logAttrs := []any{
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID),
		slog.String("amount", req.Amount.String()),
	}

	if err := s.validateTransfer(req); err != nil {
		s.LogFailure(ctx, err, "Transfer rejected", logAttrs...)
		return nil, err
	}

	var record *domain.TransactionRecord
	var destOwner string
	err := runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		locked, err := s.lockAccounts(ctx, tx, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}

		source := locked[req.FromAccountID]
		if source == nil || !source.IsOwnedBy(userID) {
			return apperrors.NotFound("source account %s", req.FromAccountID)
		}
		if !source.IsActive() {
			return apperrors.InvalidState("source account is %s", source.Status)
		}
		if !source.CanCover(req.Amount) {
			return apperrors.InsufficientFunds("available balance %s is less than %s", source.AvailableBalance(), req.Amount)
		}

		dest := locked[req.ToAccountID]
		if dest == nil {
			return apperrors.NotFound("destination account %s", req.ToAccountID)
		}
		if !dest.IsActive() {
			return apperrors.InvalidState("destination account is %s", dest.Status)
		}
		if dest.CurrencyCode != source.CurrencyCode {
			return apperrors.Validation("currency mismatch: %s to %s", source.CurrencyCode, dest.CurrencyCode)
		}
		if err := s.checkPrecision(ctx, source.CurrencyCode, req.Amount); err != nil {
			return err
		}
		destOwner = dest.UserID

		now := s.now()
		record, err = s.txnRepo.InsertTransactionRecord(ctx, tx, domain.TransactionRecord{
			TransactionID:   uuid.NewString(),
			FromAccountID:   &source.AccountID,
			ToAccountID:     &dest.AccountID,
			Amount:          req.Amount,
			CurrencyCode:    source.CurrencyCode,
			TransactionType: domain.TransferTx,
			Status:          domain.StatusCompleted,
			Description:     strings.TrimSpace(req.Description),
			CreatedAt:       now,
			CreatedBy:       userID,
			ProcessedAt:     &now,
		})
		if err != nil {
			return err
		}

		if _, err := s.accountRepo.AdjustBalance(ctx, tx, source.AccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if _, err := s.accountRepo.AdjustBalance(ctx, tx, dest.AccountID, req.Amount); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Transfer failed", logAttrs...)
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed", append(logAttrs, slog.String("transaction_id", record.TransactionID))...)

	payload := recordPayload(record)
	s.notify(ctx, domain.NotifyTransferCompleted, userID, payload)
	if destOwner != userID {
		s.notify(ctx, domain.NotifyTransferReceived, destOwner, payload)
	}
	s.appendAudit(ctx, domain.AuditTransferCompleted, userID, record.TransactionID, payload)

	return record, nil
}

func (s *transferService) validateTransfer(req dto.TransferRequest) error {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return apperrors.Validation("fromAccountId and toAccountId are required")
	}
	if req.FromAccountID == req.ToAccountID {
		return apperrors.Validation("cannot transfer to the same account")
	}
	return validateAmount(req.Amount)
}

// lockAccounts locks every id in ascending order so that two transfers touching the same
// pair of accounts cannot deadlock. Missing accounts are absent from the result.
func (s *transferService) lockAccounts(ctx context.Context, tx pgx.Tx, ids ...string) (map[string]*domain.Account, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	locked := make(map[string]*domain.Account, len(ordered))
	for _, id := range ordered {
		if _, seen := locked[id]; seen {
			continue
		}
		acc, err := s.accountRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				locked[id] = nil
				continue
			}
			return nil, err
		}
		locked[id] = acc
	}
	return locked, nil
}

// lockOwnedAccount locks a single account and checks it belongs to userID and is active.
func (s *transferService) lockOwnedAccount(ctx context.Context, tx pgx.Tx, userID, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account %s", accountID)
		}
		return nil, err
	}
	if !acc.IsOwnedBy(userID) {
		return nil, apperrors.NotFound("account %s", accountID)
	}
	if !acc.IsActive() {
		return nil, apperrors.InvalidState("account is %s", acc.Status)
	}
	return acc, nil
}

func (s *transferService) checkPrecision(ctx context.Context, currencyCode string, amount decimal.Decimal) error {
	if s.currencyRepo == nil {
		return nil
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Internal("account currency is not configured", err)
		}
		return err
	}
	if !currency.Fits(amount) {
		return apperrors.Validation("%s supports at most %d decimal places", currency.CurrencyCode, currency.Precision)
	}
	return nil
}

// Deposit credits an owned account from an external source.
func (s *transferService) Deposit(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error) {
	return s.move(ctx, userID, accountID, req, domain.DepositTx)
}

// Withdraw debits an owned account to an external destination.
func (s *transferService) Withdraw(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error) {
	return s.move(ctx, userID, accountID, req, domain.WithdrawalTx)
}

func (s *transferService) move(ctx context.Context, userID, accountID string, req dto.MovementRequest, kind domain.TransactionType) (*domain.TransactionRecord, error) {
	logAttrs := []any{
		slog.String("account_id", accountID),
		slog.String("type", string(kind)),
		slog.String("amount", req.Amount.String()),
	}
	if err := validateAmount(req.Amount); err != nil {
		s.LogFailure(ctx, err, "Movement rejected", logAttrs...)
		return nil, err
	}

	var record *domain.TransactionRecord
	err := runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		acc, err := s.lockOwnedAccount(ctx, tx, userID, accountID)
		if err != nil {
			return err
		}
		if err := s.checkPrecision(ctx, acc.CurrencyCode, req.Amount); err != nil {
			return err
		}

		now := s.now()
		rec := domain.TransactionRecord{
			TransactionID:   uuid.NewString(),
			Amount:          req.Amount,
			CurrencyCode:    acc.CurrencyCode,
			TransactionType: kind,
			Status:          domain.StatusCompleted,
			Description:     strings.TrimSpace(req.Description),
			CreatedAt:       now,
			CreatedBy:       userID,
			ProcessedAt:     &now,
		}
		delta := req.Amount
		if kind == domain.WithdrawalTx {
			if !acc.CanCover(req.Amount) {
				return apperrors.InsufficientFunds("available balance %s is less than %s", acc.AvailableBalance(), req.Amount)
			}
			rec.FromAccountID = &acc.AccountID
			delta = req.Amount.Neg()
		} else {
			rec.ToAccountID = &acc.AccountID
		}

		record, err = s.txnRepo.InsertTransactionRecord(ctx, tx, rec)
		if err != nil {
			return err
		}
		_, err = s.accountRepo.AdjustBalance(ctx, tx, acc.AccountID, delta)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Movement failed", logAttrs...)
		return nil, err
	}

	s.LogInfo(ctx, "Movement completed", append(logAttrs, slog.String("transaction_id", record.TransactionID))...)

	payload := recordPayload(record)
	if kind == domain.WithdrawalTx {
		s.notify(ctx, domain.NotifyWithdrawal, userID, payload)
		s.appendAudit(ctx, domain.AuditWithdrawal, userID, record.TransactionID, payload)
	} else {
		s.notify(ctx, domain.NotifyDeposit, userID, payload)
		s.appendAudit(ctx, domain.AuditDeposit, userID, record.TransactionID, payload)
	}
	return record, nil
}

// notify enqueues a notification after commit. The caller's result never depends on it.
func (s *transferService) notify(ctx context.Context, kind domain.NotificationKind, recipient string, payload map[string]any) {
	if s.notifier == nil || recipient == "" {
		return
	}
	s.runner.Go(ctx, "notify:"+string(kind), func(ctx context.Context) error {
		return s.notifier.Enqueue(ctx, kind, recipient, payload)
	})
}

// appendAudit records an audit event after commit. The caller's result never depends on it.
func (s *transferService) appendAudit(ctx context.Context, eventType domain.AuditEventType, userID, entityID string, data map[string]any) {
	if s.audit == nil {
		return
	}
	event := domain.AuditEvent{
		AuditID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		EntityID:  entityID,
		Data:      data,
		CreatedAt: s.now(),
	}
	s.runner.Go(ctx, "audit:"+string(eventType), func(ctx context.Context) error {
		return s.audit.Append(ctx, event)
	})
}

func recordPayload(rec *domain.TransactionRecord) map[string]any {
	payload := map[string]any{
		"transactionId": rec.TransactionID,
		"type":          string(rec.TransactionType),
		"status":        string(rec.Status),
		"amount":        rec.Amount.String(),
		"currency":      rec.CurrencyCode,
	}
	if rec.FromAccountID != nil {
		payload["fromAccountId"] = *rec.FromAccountID
	}
	if rec.ToAccountID != nil {
		payload["toAccountId"] = *rec.ToAccountID
	}
	if rec.BillerID != nil {
		payload["billerId"] = *rec.BillerID
	}
	if rec.Reference != "" {
		payload["reference"] = rec.Reference
	}
	if rec.ScheduledDate != nil {
		payload["scheduledDate"] = rec.ScheduledDate.Format(time.RFC3339)
	}
	return payload
}
