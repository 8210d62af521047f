package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the product type of a customer account.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
)

// AccountStatus is the lifecycle status of an account. Accounts are never deleted,
// closing one moves it to AccountInactive.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountFrozen   AccountStatus = "frozen"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == Savings || t == Checking
}

// Account represents a customer account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string          `json:"accountId"`    // Primary Key (UUID)
	UserID       string          `json:"userId"`       // Owning user
	Name         string          `json:"name"`         // User-defined name
	AccountType  AccountType     `json:"accountType"`  // savings or checking
	CurrencyCode string          `json:"currencyCode"` // FK -> currencies.currency_code
	Status       AccountStatus   `json:"status"`
	Balance      decimal.Decimal `json:"balance"`    // Settled funds, never negative
	HoldAmount   decimal.Decimal `json:"holdAmount"` // Funds reserved but not yet debited
	AuditFields
}

// AvailableBalance is the balance minus funds on hold.
func (a Account) AvailableBalance() decimal.Decimal {
	return a.Balance.Sub(a.HoldAmount)
}

// IsActive reports whether the account can originate movements.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// IsOwnedBy reports whether userID owns the account.
func (a Account) IsOwnedBy(userID string) bool {
	return a.UserID == userID
}

// CanCover reports whether the available balance covers amount.
func (a Account) CanCover(amount decimal.Decimal) bool {
	return a.AvailableBalance().GreaterThanOrEqual(amount)
}

// AccountBalance is a point-in-time view of an account's funds.
type AccountBalance struct {
	AccountID        string          `json:"accountId"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	HoldAmount       decimal.Decimal `json:"holdAmount"`
	CurrencyCode     string          `json:"currencyCode"`
	LastUpdated      time.Time       `json:"lastUpdated"`
}
