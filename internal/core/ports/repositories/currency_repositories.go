package repositories

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyRepositoryFacade is the currency repository as seen by services
type CurrencyRepositoryFacade interface {
	CurrencyReader
}
