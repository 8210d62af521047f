package services

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
)

// BillerSvc defines the read side of bill payments and biller bookmarks.
type BillerSvc interface {
	ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error)
	ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error)
	SaveBiller(ctx context.Context, userID string, req dto.SaveBillerRequest) (*domain.SavedBiller, error)
	RemoveSavedBiller(ctx context.Context, userID string, billerID string) error

	// ListBillPayments lists bill payments made from an account owned by userID.
	ListBillPayments(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error)

	// ListScheduledPayments lists pending scheduled payments created by userID.
	ListScheduledPayments(ctx context.Context, userID string) ([]domain.TransactionRecord, error)

	// GetPaymentReceipt builds the receipt of a bill payment owned by userID.
	GetPaymentReceipt(ctx context.Context, userID string, transactionID string) (*domain.PaymentReceipt, error)
}
