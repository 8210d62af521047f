package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mobile_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
)

type billerService struct {
	BaseService
	billerRepo   portsrepo.BillerRepositoryFacade
	accountRepo  portsrepo.AccountReader
	txnRepo      portsrepo.TransactionReader
	currencyRepo portsrepo.CurrencyReader
}

// NewBillerService creates the read side of bill payments.
func NewBillerService(billerRepo portsrepo.BillerRepositoryFacade, accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, currencyRepo portsrepo.CurrencyReader) portssvc.BillerSvc {
	return &billerService{
		billerRepo:   billerRepo,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.BillerSvc = (*billerService)(nil)

func (s *billerService) ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error) {
	billers, err := s.billerRepo.ListBillers(ctx, category)
	if err != nil {
		s.LogError(ctx, err, "Failed to list billers")
		return nil, err
	}
	return billers, nil
}

func (s *billerService) ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error) {
	saved, err := s.billerRepo.ListSavedBillers(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list saved billers")
		return nil, err
	}
	return saved, nil
}

func (s *billerService) SaveBiller(ctx context.Context, userID string, req dto.SaveBillerRequest) (*domain.SavedBiller, error) {
	biller, err := s.billerRepo.FindBillerByID(ctx, req.BillerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("biller %s", req.BillerID)
		}
		s.LogError(ctx, err, "Failed to find biller", slog.String("biller_id", req.BillerID))
		return nil, err
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname = biller.Name
	}
	saved := domain.SavedBiller{
		UserID:            userID,
		BillerID:          biller.BillerID,
		Nickname:          nickname,
		CustomerReference: strings.TrimSpace(req.CustomerReference),
		CreatedAt:         time.Now(),
		Biller:            biller,
	}
	if err := s.billerRepo.SaveSavedBiller(ctx, saved); err != nil {
		s.LogFailure(ctx, err, "Failed to save biller", slog.String("biller_id", biller.BillerID))
		return nil, err
	}
	s.LogInfo(ctx, "Biller saved", slog.String("biller_id", biller.BillerID))
	return &saved, nil
}

// RemoveSavedBiller deletes one of the user's bookmarks.
func (s *billerService) RemoveSavedBiller(ctx context.Context, userID string, billerID string) error {
	if err := s.billerRepo.DeleteSavedBiller(ctx, userID, billerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("saved biller %s", billerID)
		}
		s.LogError(ctx, err, "Failed to remove saved biller", slog.String("biller_id", billerID))
		return err
	}
	s.LogInfo(ctx, "Saved biller removed", slog.String("biller_id", billerID))
	return nil
}

func (s *billerService) ListBillPayments(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error) {
	if err := s.requireOwnedAccount(ctx, userID, accountID); err != nil {
		return nil, nil, err
	}
	billType := domain.BillPaymentTx
	records, next, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, domain.TransactionFilter{
		Type:      &billType,
		Limit:     normalizeLimit(limit),
		NextToken: nextToken,
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list bill payments", slog.String("account_id", accountID))
		return nil, nil, err
	}
	return records, next, nil
}

func (s *billerService) ListScheduledPayments(ctx context.Context, userID string) ([]domain.TransactionRecord, error) {
	records, err := s.txnRepo.ListScheduledByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list scheduled payments")
		return nil, err
	}
	return records, nil
}

// GetPaymentReceipt builds the receipt of a completed bill payment. The receipt number is derived
// from the ledger sequence so it is stable across calls.
func (s *billerService) GetPaymentReceipt(ctx context.Context, userID string, transactionID string) (*domain.PaymentReceipt, error) {
	rec, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("transaction %s", transactionID)
		}
		s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	if rec.TransactionType != domain.BillPaymentTx || rec.Status != domain.StatusCompleted || rec.FromAccountID == nil || rec.BillerID == nil {
		return nil, apperrors.NotFound("bill payment %s", transactionID)
	}
	if err := s.requireOwnedAccount(ctx, userID, *rec.FromAccountID); err != nil {
		return nil, apperrors.NotFound("bill payment %s", transactionID)
	}

	billerName := ""
	if biller, err := s.billerRepo.FindBillerByID(ctx, *rec.BillerID); err == nil {
		billerName = biller.Name
	} else {
		s.LogWarn(ctx, "Biller missing for receipt", slog.String("biller_id", *rec.BillerID))
	}

	amount := rec.Amount.String()
	if s.currencyRepo != nil {
		if currency, err := s.currencyRepo.FindCurrencyByCode(ctx, rec.CurrencyCode); err == nil {
			amount = utils.FormatWithCurrencyPrecision(rec.Amount, *currency)
		}
	}

	return &domain.PaymentReceipt{
		ReceiptNumber: ReceiptNumber(rec.Sequence),
		TransactionID: rec.TransactionID,
		AccountID:     *rec.FromAccountID,
		BillerID:      *rec.BillerID,
		BillerName:    billerName,
		Amount:        amount,
		CurrencyCode:  rec.CurrencyCode,
		Reference:     rec.Reference,
		Status:        rec.Status,
		ScheduledDate: rec.ScheduledDate,
		CreatedAt:     rec.CreatedAt,
		ProcessedAt:   rec.ProcessedAt,
	}, nil
}

// ReceiptNumber formats a ledger sequence as a receipt number, e.g. RCP0000000042.
func ReceiptNumber(sequence int64) string {
	return fmt.Sprintf("RCP%010d", sequence)
}

func (s *billerService) requireOwnedAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("account %s", accountID)
		}
		return err
	}
	if !account.IsOwnedBy(userID) {
		return apperrors.NotFound("account %s", accountID)
	}
	return nil
}
