package models

import "time"

// Biller represents a row of the billers table.
type Biller struct {
	BillerID     string    `db:"biller_id"`
	Name         string    `db:"name"`
	Category     string    `db:"category"`
	Status       string    `db:"status"`
	CurrencyCode string    `db:"currency_code"`
	CreatedAt    time.Time `db:"created_at"`
}

// SavedBiller represents a row of the saved_billers table.
type SavedBiller struct {
	UserID            string    `db:"user_id"`
	BillerID          string    `db:"biller_id"`
	Nickname          string    `db:"nickname"`
	CustomerReference string    `db:"customer_reference"`
	CreatedAt         time.Time `db:"created_at"`
}
