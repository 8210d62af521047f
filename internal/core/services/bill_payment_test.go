package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *TransferServiceTestSuite) payBill(amount string, scheduled *time.Time) (*domain.TransactionRecord, error) {
	return suite.service.PayBill(context.Background(), userA, dto.PayBillRequest{
		AccountID:     "acc_a",
		BillerID:      "biller_power",
		Amount:        decimal.RequireFromString(amount),
		Reference:     "CUST-991",
		ScheduledDate: scheduled,
	})
}

func (suite *TransferServiceTestSuite) TestPayBill_Immediate() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)

	rec, err := suite.payBill("40", nil)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPaymentTx, rec.TransactionType)
	suite.Equal(domain.StatusCompleted, rec.Status)
	suite.Equal("biller_power", *rec.BillerID)
	suite.Nil(rec.ToAccountID)
	suite.Equal("CUST-991", rec.Reference)
	suite.Equal("60", suite.balance("acc_a"))

	suite.runner.Wait()
	suite.notifier.AssertCalled(suite.T(), "Enqueue", mock.Anything, domain.NotifyBillPaid, userA, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestPayBill_PastScheduledDatePaysNow() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	past := suite.now.Add(-time.Hour)

	rec, err := suite.payBill("40", &past)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, rec.Status)
	suite.Equal("60", suite.balance("acc_a"))
}

func (suite *TransferServiceTestSuite) TestPayBill_Rejections() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)

	_, err := suite.payBill("101", nil)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	_, err = suite.payBill("0", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.PayBill(context.Background(), userA, dto.PayBillRequest{
		AccountID: "acc_a",
		BillerID:  "biller_power",
		Amount:    decimal.NewFromInt(5),
		Reference: "  ",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.PayBill(context.Background(), userA, dto.PayBillRequest{
		AccountID: "acc_a",
		BillerID:  "biller_unknown",
		Amount:    decimal.NewFromInt(5),
		Reference: "x",
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ledger.addBiller("biller_old", "USD", domain.BillerInactive)
	_, err = suite.service.PayBill(context.Background(), userA, dto.PayBillRequest{
		AccountID: "acc_a",
		BillerID:  "biller_old",
		Amount:    decimal.NewFromInt(5),
		Reference: "x",
	})
	suite.ErrorIs(err, apperrors.ErrInvalidState)

	suite.ledger.addBiller("biller_eu", "EUR", domain.BillerActive)
	_, err = suite.service.PayBill(context.Background(), userA, dto.PayBillRequest{
		AccountID: "acc_a",
		BillerID:  "biller_eu",
		Amount:    decimal.NewFromInt(5),
		Reference: "x",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Equal("100", suite.balance("acc_a"))
	suite.Zero(suite.ledger.recordCount())
}

func (suite *TransferServiceTestSuite) TestPayBill_ScheduledHoldsFunds() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	due := suite.now.Add(72 * time.Hour)

	rec, err := suite.payBill("40", &due)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusScheduled, rec.Status)
	suite.Nil(rec.ProcessedAt)
	acc := suite.ledger.account("acc_a")
	suite.Equal("100", acc.Balance.String())
	suite.Equal("40", acc.HoldAmount.String())
	suite.Equal("60", acc.AvailableBalance().String())

	// Held funds are not available to other movements.
	_, err = suite.transfer(userA, "acc_a", "acc_b", "70")
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	_, err = suite.transfer(userA, "acc_a", "acc_b", "60")
	suite.NoError(err)

	suite.runner.Wait()
	suite.notifier.AssertCalled(suite.T(), "Enqueue", mock.Anything, domain.NotifyBillScheduled, userA, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestExecuteScheduledPayment() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	due := suite.now.Add(24 * time.Hour)
	rec, err := suite.payBill("40", &due)
	suite.Require().NoError(err)

	_, err = suite.service.ExecuteScheduledPayment(context.Background(), rec.TransactionID)
	suite.ErrorIs(err, apperrors.ErrInvalidState, "not due yet")

	suite.now = due.Add(time.Second)
	executed, err := suite.service.ExecuteScheduledPayment(context.Background(), rec.TransactionID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, executed.Status)
	suite.Require().NotNil(executed.ProcessedAt)
	acc := suite.ledger.account("acc_a")
	suite.Equal("60", acc.Balance.String())
	suite.True(acc.HoldAmount.IsZero())

	_, err = suite.service.ExecuteScheduledPayment(context.Background(), rec.TransactionID)
	suite.ErrorIs(err, apperrors.ErrInvalidState, "already executed")
	suite.Equal("60", suite.balance("acc_a"))
}

func (suite *TransferServiceTestSuite) TestExecuteScheduledPayment_InactiveAccountCancels() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	due := suite.now.Add(24 * time.Hour)
	rec, err := suite.payBill("40", &due)
	suite.Require().NoError(err)

	suite.ledger.setStatus("acc_a", domain.AccountFrozen)
	suite.now = due
	executed, err := suite.service.ExecuteScheduledPayment(context.Background(), rec.TransactionID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, executed.Status)
	acc := suite.ledger.account("acc_a")
	suite.Equal("100", acc.Balance.String())
	suite.True(acc.HoldAmount.IsZero())
}

func (suite *TransferServiceTestSuite) TestCancelScheduledPayment() {
	suite.ledger.addBiller("biller_power", "USD", domain.BillerActive)
	due := suite.now.Add(24 * time.Hour)
	rec, err := suite.payBill("40", &due)
	suite.Require().NoError(err)

	_, err = suite.service.CancelScheduledPayment(context.Background(), userB, rec.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound, "other users cannot see the payment")

	cancelled, err := suite.service.CancelScheduledPayment(context.Background(), userA, rec.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	acc := suite.ledger.account("acc_a")
	suite.Equal("100", acc.Balance.String())
	suite.True(acc.HoldAmount.IsZero())

	_, err = suite.service.CancelScheduledPayment(context.Background(), userA, rec.TransactionID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TransferServiceTestSuite) TestCancelScheduledPayment_RejectsTransfers() {
	rec, err := suite.transfer(userA, "acc_a", "acc_b", "10")
	suite.Require().NoError(err)

	_, err = suite.service.CancelScheduledPayment(context.Background(), userA, rec.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.CancelScheduledPayment(context.Background(), userA, "txn_missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
