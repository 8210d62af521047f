package services

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
)

// TransferSvc moves money between accounts. Every operation runs in one transaction scope
// and either commits fully or leaves no trace.
type TransferSvc interface {
	// Transfer debits fromAccountID (owned by userID) and credits toAccountID.
	Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.TransactionRecord, error)

	// Deposit credits an account owned by userID from outside the system of record.
	Deposit(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error)

	// Withdraw debits an account owned by userID to outside the system of record.
	Withdraw(ctx context.Context, userID string, accountID string, req dto.MovementRequest) (*domain.TransactionRecord, error)
}

// BillPaymentSvc pays external billers, immediately or on a future date.
type BillPaymentSvc interface {
	// PayBill debits the account now, or records a scheduled payment and places a hold
	// when req.ScheduledDate is in the future.
	PayBill(ctx context.Context, userID string, req dto.PayBillRequest) (*domain.TransactionRecord, error)

	// ExecuteScheduledPayment settles a due scheduled payment. It is invoked by the scheduler.
	ExecuteScheduledPayment(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// CancelScheduledPayment cancels a scheduled payment owned by userID and releases its hold.
	CancelScheduledPayment(ctx context.Context, userID string, transactionID string) (*domain.TransactionRecord, error)
}

// TransferSvcFacade combines the money movement services.
type TransferSvcFacade interface {
	TransferSvc
	BillPaymentSvc
}
