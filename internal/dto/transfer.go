package dto

import (
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /accounts/transfer.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId" binding:"required"`
	ToAccountID   string          `json:"toAccountId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	Description   string          `json:"description" binding:"max=255"`
}

// TransactionResponse defines the data returned for a ledger record.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionId"`
	Sequence      int64                    `json:"sequence"`
	FromAccountID *string                  `json:"fromAccountId,omitempty"`
	ToAccountID   *string                  `json:"toAccountId,omitempty"`
	BillerID      *string                  `json:"billerId,omitempty"`
	Amount        decimal.Decimal          `json:"amount"`
	CurrencyCode  string                   `json:"currencyCode"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	Description   string                   `json:"description,omitempty"`
	Reference     string                   `json:"reference,omitempty"`
	ScheduledDate *time.Time               `json:"scheduledDate,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	ProcessedAt   *time.Time               `json:"processedAt,omitempty"`
	Direction     accounting.Direction     `json:"direction,omitempty"`
}

// ToTransactionResponse converts a domain.TransactionRecord to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Sequence:      txn.Sequence,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		BillerID:      txn.BillerID,
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		Type:          txn.TransactionType,
		Status:        txn.Status,
		Description:   txn.Description,
		Reference:     txn.Reference,
		ScheduledDate: txn.ScheduledDate,
		CreatedAt:     txn.CreatedAt,
		ProcessedAt:   txn.ProcessedAt,
	}
}

// ToTransactionResponses converts a slice of domain.TransactionRecord to []TransactionResponse.
func ToTransactionResponses(txns []domain.TransactionRecord) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ToAccountTransactionResponses converts records listed for one account and marks each
// as a debit or a credit of that account.
func ToAccountTransactionResponses(txns []domain.TransactionRecord, accountID string) []TransactionResponse {
	responses := ToTransactionResponses(txns)
	for i := range txns {
		if dir, err := accounting.DirectionFor(txns[i], accountID); err == nil {
			responses[i].Direction = dir
		}
	}
	return responses
}

// ListTransactionsParams defines query parameters for a transaction history listing.
type ListTransactionsParams struct {
	Limit     int        `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string    `form:"nextToken"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02T15:04:05Z07:00"`
	Type      *string    `form:"type" binding:"omitempty,oneof=transfer bill_payment deposit withdrawal"`
	Status    *string    `form:"status" binding:"omitempty,oneof=pending scheduled completed failed cancelled"`
}

// ToFilter converts query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	filter := domain.TransactionFilter{
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Limit:     p.Limit,
		NextToken: p.NextToken,
	}
	if p.Type != nil {
		t := domain.TransactionType(*p.Type)
		filter.Type = &t
	}
	if p.Status != nil {
		s := domain.TransactionStatus(*p.Status)
		filter.Status = &s
	}
	return filter
}

// ListTransactionsResponse wraps a page of ledger records.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
