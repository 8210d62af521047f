package dto

import (
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required,max=100"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=savings checking"`
	CurrencyCode string             `json:"currencyCode" binding:"required,currency_code"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID        string               `json:"accountId"`
	Name             string               `json:"name"`
	AccountType      domain.AccountType   `json:"accountType"`
	CurrencyCode     string               `json:"currencyCode"`
	Status           domain.AccountStatus `json:"status"`
	Balance          decimal.Decimal      `json:"balance"`
	HoldAmount       decimal.Decimal      `json:"holdAmount"`
	AvailableBalance decimal.Decimal      `json:"availableBalance"`
	CreatedAt        time.Time            `json:"createdAt"`
	LastUpdatedAt    time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		CurrencyCode:     acc.CurrencyCode,
		Status:           acc.Status,
		Balance:          acc.Balance,
		HoldAmount:       acc.HoldAmount,
		AvailableBalance: acc.AvailableBalance(),
		CreatedAt:        acc.CreatedAt,
		LastUpdatedAt:    acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID        string          `json:"accountId"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	HoldAmount       decimal.Decimal `json:"holdAmount"`
	CurrencyCode     string          `json:"currencyCode"`
	LastUpdated      time.Time       `json:"lastUpdated"`
}

// ToAccountBalanceResponse converts a domain.AccountBalance to its DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:        b.AccountID,
		Balance:          b.Balance,
		AvailableBalance: b.AvailableBalance,
		HoldAmount:       b.HoldAmount,
		CurrencyCode:     b.CurrencyCode,
		LastUpdated:      b.LastUpdated,
	}
}

// MovementRequest is the body of a deposit or withdrawal.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,positive_decimal"`
	Description string          `json:"description" binding:"max=255"`
}
