package utils

import (
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with exactly the currency's number of decimals.
// Example: 12.5 with USD (precision 2) returns "12.50"; 12.3456 with JPY (precision 0) returns "12".
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(int32(currency.Precision))
}
