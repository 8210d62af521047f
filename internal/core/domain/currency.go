package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // Minor units, e.g. 2 for USD, 0 for JPY
}

// Fits reports whether amount carries no more decimal places than the currency allows.
func (c Currency) Fits(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(int32(c.Precision)))
}
