package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayBill pays a biller from an account owned by userID. A future ScheduledDate records the
// payment as scheduled and holds the funds; otherwise the account is debited immediately.
func (s *transferService) PayBill(ctx context.Context, userID string, req dto.PayBillRequest) (*domain.TransactionRecord, error) {
	logAttrs := []any{
		slog.String("account_id", req.AccountID),
		slog.String("biller_id", req.BillerID),
		slog.String("amount", req.Amount.String()),
	}

	if err := validatePayBill(req); err != nil {
		s.LogFailure(ctx, err, "Bill payment rejected", logAttrs...)
		return nil, err
	}

	biller, err := s.findPayableBiller(ctx, req.BillerID)
	if err != nil {
		s.LogFailure(ctx, err, "Bill payment rejected", logAttrs...)
		return nil, err
	}

	now := s.now()
	scheduled := req.ScheduledDate != nil && req.ScheduledDate.After(now)

	var record *domain.TransactionRecord
	err = runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		acc, err := s.lockOwnedAccount(ctx, tx, userID, req.AccountID)
		if err != nil {
			return err
		}
		if !acc.CanCover(req.Amount) {
			return apperrors.InsufficientFunds("available balance %s is less than %s", acc.AvailableBalance(), req.Amount)
		}
		if biller.CurrencyCode != acc.CurrencyCode {
			return apperrors.Validation("biller accepts %s, account is %s", biller.CurrencyCode, acc.CurrencyCode)
		}
		if err := s.checkPrecision(ctx, acc.CurrencyCode, req.Amount); err != nil {
			return err
		}

		rec := domain.TransactionRecord{
			TransactionID:   uuid.NewString(),
			FromAccountID:   &acc.AccountID,
			BillerID:        &biller.BillerID,
			Amount:          req.Amount,
			CurrencyCode:    acc.CurrencyCode,
			TransactionType: domain.BillPaymentTx,
			Description:     fmt.Sprintf("Bill payment to %s", biller.Name),
			Reference:       strings.TrimSpace(req.Reference),
			CreatedAt:       now,
			CreatedBy:       userID,
		}

		if scheduled {
			rec.Status = domain.StatusScheduled
			rec.ScheduledDate = req.ScheduledDate
			record, err = s.txnRepo.InsertTransactionRecord(ctx, tx, rec)
			if err != nil {
				return err
			}
			// The balance is untouched until execution; the hold keeps the funds available for it.
			_, err = s.accountRepo.AdjustHold(ctx, tx, acc.AccountID, req.Amount)
			return err
		}

		rec.Status = domain.StatusCompleted
		rec.ProcessedAt = &now
		record, err = s.txnRepo.InsertTransactionRecord(ctx, tx, rec)
		if err != nil {
			return err
		}
		_, err = s.accountRepo.AdjustBalance(ctx, tx, acc.AccountID, req.Amount.Neg())
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Bill payment failed", logAttrs...)
		return nil, err
	}

	payload := recordPayload(record)
	payload["billerName"] = biller.Name
	if scheduled {
		s.LogInfo(ctx, "Bill payment scheduled", append(logAttrs, slog.String("transaction_id", record.TransactionID))...)
		s.notify(ctx, domain.NotifyBillScheduled, userID, payload)
		s.appendAudit(ctx, domain.AuditBillPaymentScheduled, userID, record.TransactionID, payload)
	} else {
		s.LogInfo(ctx, "Bill payment completed", append(logAttrs, slog.String("transaction_id", record.TransactionID))...)
		s.notify(ctx, domain.NotifyBillPaid, userID, payload)
		s.appendAudit(ctx, domain.AuditBillPaymentCompleted, userID, record.TransactionID, payload)
	}
	return record, nil
}

func validatePayBill(req dto.PayBillRequest) error {
	if req.AccountID == "" || req.BillerID == "" {
		return apperrors.Validation("accountId and billerId are required")
	}
	if strings.TrimSpace(req.Reference) == "" {
		return apperrors.Validation("reference is required")
	}
	return validateAmount(req.Amount)
}

func (s *transferService) findPayableBiller(ctx context.Context, billerID string) (*domain.Biller, error) {
	if s.billerRepo == nil {
		return nil, apperrors.Internal("bill payments are not configured", nil)
	}
	biller, err := s.billerRepo.FindBillerByID(ctx, billerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("biller %s", billerID)
		}
		return nil, err
	}
	if !biller.IsActive() {
		return nil, apperrors.InvalidState("biller %s is not accepting payments", biller.Name)
	}
	return biller, nil
}

// ExecuteScheduledPayment settles a due scheduled payment: the hold is released and the
// balance debited in one scope. A payment whose account is no longer active is cancelled.
func (s *transferService) ExecuteScheduledPayment(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	var record *domain.TransactionRecord
	var owner string
	err := runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		rec, err := s.lockBillPayment(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if err := requireScheduled(rec); err != nil {
			return err
		}
		now := s.now()
		if rec.ScheduledDate != nil && rec.ScheduledDate.After(now) {
			return apperrors.InvalidState("payment %s is not due until %s", rec.TransactionID, rec.ScheduledDate)
		}

		acc, err := s.accountRepo.GetForUpdate(ctx, tx, *rec.FromAccountID)
		if err != nil {
			return err
		}
		owner = acc.UserID

		if _, err := s.accountRepo.AdjustHold(ctx, tx, acc.AccountID, rec.Amount.Neg()); err != nil {
			return err
		}

		next := domain.StatusCompleted
		if !acc.IsActive() {
			next = domain.StatusCancelled
		} else if _, err := s.accountRepo.AdjustBalance(ctx, tx, acc.AccountID, rec.Amount.Neg()); err != nil {
			return err
		}

		if err := s.txnRepo.UpdateTransactionStatus(ctx, tx, rec.TransactionID, rec.Status, next, &now); err != nil {
			return err
		}
		rec.Status = next
		rec.ProcessedAt = &now
		record = rec
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Scheduled payment execution failed", slog.String("transaction_id", transactionID))
		return nil, err
	}

	payload := recordPayload(record)
	if record.Status == domain.StatusCancelled {
		s.LogWarn(ctx, "Scheduled payment cancelled, account not active", slog.String("transaction_id", transactionID))
		s.notify(ctx, domain.NotifyBillCancelled, owner, payload)
		s.appendAudit(ctx, domain.AuditBillPaymentCancelled, owner, record.TransactionID, payload)
	} else {
		s.LogInfo(ctx, "Scheduled payment executed", slog.String("transaction_id", transactionID))
		s.notify(ctx, domain.NotifyBillPaid, owner, payload)
		s.appendAudit(ctx, domain.AuditBillPaymentCompleted, owner, record.TransactionID, payload)
	}
	return record, nil
}

// CancelScheduledPayment cancels a scheduled payment and releases its hold.
func (s *transferService) CancelScheduledPayment(ctx context.Context, userID string, transactionID string) (*domain.TransactionRecord, error) {
	var record *domain.TransactionRecord
	err := runInScope(ctx, s.accountRepo, func(tx pgx.Tx) error {
		rec, err := s.lockBillPayment(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		acc, err := s.accountRepo.GetForUpdate(ctx, tx, *rec.FromAccountID)
		if err != nil {
			return err
		}
		if !acc.IsOwnedBy(userID) {
			return apperrors.NotFound("transaction %s", transactionID)
		}
		if err := requireScheduled(rec); err != nil {
			return err
		}

		now := s.now()
		if err := s.txnRepo.UpdateTransactionStatus(ctx, tx, rec.TransactionID, rec.Status, domain.StatusCancelled, &now); err != nil {
			return err
		}
		if _, err := s.accountRepo.AdjustHold(ctx, tx, acc.AccountID, rec.Amount.Neg()); err != nil {
			return err
		}
		rec.Status = domain.StatusCancelled
		rec.ProcessedAt = &now
		record = rec
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Scheduled payment cancellation failed", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Scheduled payment cancelled", slog.String("transaction_id", transactionID))
	payload := recordPayload(record)
	s.notify(ctx, domain.NotifyBillCancelled, userID, payload)
	s.appendAudit(ctx, domain.AuditBillPaymentCancelled, userID, record.TransactionID, payload)
	return record, nil
}

// lockBillPayment locks a bill payment record.
func (s *transferService) lockBillPayment(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.TransactionRecord, error) {
	rec, err := s.txnRepo.GetTransactionForUpdate(ctx, tx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("transaction %s", transactionID)
		}
		return nil, err
	}
	if rec.TransactionType != domain.BillPaymentTx || rec.FromAccountID == nil {
		return nil, apperrors.NotFound("scheduled payment %s", transactionID)
	}
	return rec, nil
}

func requireScheduled(rec *domain.TransactionRecord) error {
	if !rec.Status.CanTransitionTo(domain.StatusCancelled) {
		return apperrors.InvalidState("payment is %s", rec.Status)
	}
	return nil
}
