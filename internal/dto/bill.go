package dto

import (
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayBillRequest is the body of POST /bills/pay.
// ScheduledDate in the future defers the debit until that time.
type PayBillRequest struct {
	AccountID     string          `json:"accountId" binding:"required"`
	BillerID      string          `json:"billerId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	Reference     string          `json:"reference" binding:"required,max=100"`
	ScheduledDate *time.Time      `json:"scheduledDate"`
}

// ListBillersParams defines query parameters for listing billers.
type ListBillersParams struct {
	Category *string `form:"category" binding:"omitempty,oneof=utilities telecom insurance credit_card other"`
}

// SaveBillerRequest bookmarks a biller for the requesting user.
type SaveBillerRequest struct {
	BillerID          string `json:"billerId" binding:"required"`
	Nickname          string `json:"nickname" binding:"max=50"`
	CustomerReference string `json:"customerReference" binding:"required,max=100"`
}

// BillPaymentHistoryParams defines query parameters for bill payment history.
type BillPaymentHistoryParams struct {
	AccountID string  `form:"accountId" binding:"required"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// BillerResponse defines the data returned for a biller.
type BillerResponse struct {
	BillerID     string                `json:"billerId"`
	Name         string                `json:"name"`
	Category     domain.BillerCategory `json:"category"`
	Status       domain.BillerStatus   `json:"status"`
	CurrencyCode string                `json:"currencyCode"`
}

// ToBillerResponses converts billers to DTOs.
func ToBillerResponses(billers []domain.Biller) []BillerResponse {
	res := make([]BillerResponse, len(billers))
	for i, b := range billers {
		res[i] = BillerResponse{
			BillerID:     b.BillerID,
			Name:         b.Name,
			Category:     b.Category,
			Status:       b.Status,
			CurrencyCode: b.CurrencyCode,
		}
	}
	return res
}
