package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column.
type AccountType string

// AccountStatus mirrors the status column.
type AccountStatus string

// Account represents a customer account row.
type Account struct {
	AccountID    string          `db:"account_id"`
	UserID       string          `db:"user_id"`
	Name         string          `db:"name"`
	AccountType  AccountType     `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	Status       AccountStatus   `db:"status"`
	Balance      decimal.Decimal `db:"balance"`     // CHECK (balance >= 0)
	HoldAmount   decimal.Decimal `db:"hold_amount"` // CHECK (hold_amount >= 0 AND hold_amount <= balance)
	AuditFields
}
