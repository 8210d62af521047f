package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/core/services"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
)

// savedBillerLedger adds bookmark storage to the fake ledger.
type savedBillerLedger struct {
	*fakeLedger
	saved []domain.SavedBiller
}

func (l *savedBillerLedger) SaveSavedBiller(ctx context.Context, saved domain.SavedBiller) error {
	for _, s := range l.saved {
		if s.UserID == saved.UserID && s.BillerID == saved.BillerID {
			return apperrors.ErrDuplicate
		}
	}
	l.saved = append(l.saved, saved)
	return nil
}

func (l *savedBillerLedger) ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error) {
	var out []domain.SavedBiller
	for _, s := range l.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *savedBillerLedger) DeleteSavedBiller(ctx context.Context, userID, billerID string) error {
	for i, s := range l.saved {
		if s.UserID == userID && s.BillerID == billerID {
			l.saved = append(l.saved[:i], l.saved[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (suite *TransferServiceTestSuite) TestBillerService_SaveAndList() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	repo := &savedBillerLedger{fakeLedger: suite.ledger}
	svc := services.NewBillerService(repo, suite.ledger, suite.ledger, suite.ledger)
	ctx := context.Background()

	saved, err := svc.SaveBiller(ctx, userA, dto.SaveBillerRequest{BillerID: "biller_power", CustomerReference: " 42-17 "})
	suite.Require().NoError(err)
	suite.Equal("Biller biller_power", saved.Nickname, "nickname defaults to the biller name")
	suite.Equal("42-17", saved.CustomerReference)

	_, err = svc.SaveBiller(ctx, userA, dto.SaveBillerRequest{BillerID: "biller_power", CustomerReference: "42-17"})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = svc.SaveBiller(ctx, userA, dto.SaveBillerRequest{BillerID: "biller_nope", CustomerReference: "1"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	list, err := svc.ListSavedBillers(ctx, userA)
	suite.Require().NoError(err)
	suite.Len(list, 1)

	suite.ErrorIs(svc.RemoveSavedBiller(ctx, userB, "biller_power"), apperrors.ErrNotFound, "bookmarks are per user")
	suite.Require().NoError(svc.RemoveSavedBiller(ctx, userA, "biller_power"))
	list, err = svc.ListSavedBillers(ctx, userA)
	suite.Require().NoError(err)
	suite.Empty(list)
	suite.ErrorIs(svc.RemoveSavedBiller(ctx, userA, "biller_power"), apperrors.ErrNotFound)

	category := domain.CategoryTelecom
	billers, err := svc.ListBillers(ctx, &category)
	suite.Require().NoError(err)
	suite.Empty(billers)
}

func (suite *TransferServiceTestSuite) TestBillerService_PaymentsAndReceipt() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	svc := services.NewBillerService(&savedBillerLedger{fakeLedger: suite.ledger}, suite.ledger, suite.ledger, suite.ledger)
	ctx := context.Background()

	paid, err := suite.payBill("12.5", nil)
	suite.Require().NoError(err)
	due := suite.now.Add(48 * time.Hour)
	pending, err := suite.payBill("5", &due)
	suite.Require().NoError(err)
	_, err = suite.transfer(userA, "acc_a", "acc_b", "1")
	suite.Require().NoError(err)

	payments, _, err := svc.ListBillPayments(ctx, userA, "acc_a", 0, nil)
	suite.Require().NoError(err)
	suite.Len(payments, 2)
	for _, p := range payments {
		suite.Equal(domain.BillPaymentTx, p.TransactionType)
	}

	scheduled, err := svc.ListScheduledPayments(ctx, userA)
	suite.Require().NoError(err)
	suite.Len(scheduled, 1)

	receipt, err := svc.GetPaymentReceipt(ctx, userA, paid.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(services.ReceiptNumber(paid.Sequence), receipt.ReceiptNumber)
	suite.Equal("Biller biller_power", receipt.BillerName)
	suite.Equal("12.50", receipt.Amount)
	suite.Equal(domain.StatusCompleted, receipt.Status)

	_, err = svc.GetPaymentReceipt(ctx, userB, paid.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = svc.GetPaymentReceipt(ctx, userA, pending.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound, "a scheduled payment has no receipt yet")

	_, _, err = svc.ListBillPayments(ctx, userB, "acc_a", 10, nil)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestReceiptNumber() {
	suite.Equal("RCP0000000042", services.ReceiptNumber(42))
	suite.Equal("RCP0000000001", services.ReceiptNumber(1))
}
