package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	TransferTx    TransactionType = "transfer"
	BillPaymentTx TransactionType = "bill_payment"
	DepositTx     TransactionType = "deposit"
	WithdrawalTx  TransactionType = "withdrawal"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransferTx, BillPaymentTx, DepositTx, WithdrawalTx:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusScheduled TransactionStatus = "scheduled"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s TransactionStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether s may move to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNoAccounts        = errors.New("transaction must reference at least one account")
	ErrSameAccount       = errors.New("source and destination accounts must differ")
)

// TransactionRecord is an immutable ledger entry describing one money movement.
// FromAccountID is nil for external credits, ToAccountID is nil for external debits
// such as bill payments.
type TransactionRecord struct {
	TransactionID   string            `json:"transactionId"`
	Sequence        int64             `json:"sequence"` // Monotonic creation order assigned by the store
	FromAccountID   *string           `json:"fromAccountId,omitempty"`
	ToAccountID     *string           `json:"toAccountId,omitempty"`
	BillerID        *string           `json:"billerId,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	CurrencyCode    string            `json:"currencyCode"`
	TransactionType TransactionType   `json:"transactionType"`
	Status          TransactionStatus `json:"status"`
	Description     string            `json:"description"`
	Reference       string            `json:"reference"`
	ScheduledDate   *time.Time        `json:"scheduledDate,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	CreatedBy       string            `json:"createdBy"`
	ProcessedAt     *time.Time        `json:"processedAt,omitempty"`
}

// Validate checks the structural invariants of a record before it is persisted.
func (r TransactionRecord) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if r.FromAccountID == nil && r.ToAccountID == nil {
		return ErrNoAccounts
	}
	if r.FromAccountID != nil && r.ToAccountID != nil && *r.FromAccountID == *r.ToAccountID {
		return ErrSameAccount
	}
	if !r.TransactionType.Valid() {
		return errors.New("unknown transaction type")
	}
	if !r.Status.Valid() {
		return errors.New("unknown transaction status")
	}
	return nil
}

// Touches reports whether the record moves funds in or out of accountID.
func (r TransactionRecord) Touches(accountID string) bool {
	return (r.FromAccountID != nil && *r.FromAccountID == accountID) ||
		(r.ToAccountID != nil && *r.ToAccountID == accountID)
}

// TransactionFilter narrows a transaction history listing.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Status    *TransactionStatus
	Limit     int
	NextToken *string
}
