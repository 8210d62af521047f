package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions ledger table.
// Nullable columns are pointers.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	Sequence        int64           `db:"seq"`
	FromAccountID   *string         `db:"from_account_id"`
	ToAccountID     *string         `db:"to_account_id"`
	BillerID        *string         `db:"biller_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionType string          `db:"transaction_type"`
	Status          string          `db:"status"`
	Description     string          `db:"description"`
	Reference       string          `db:"reference"`
	ScheduledDate   *time.Time      `db:"scheduled_date"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
	ProcessedAt     *time.Time      `db:"processed_at"`
}
