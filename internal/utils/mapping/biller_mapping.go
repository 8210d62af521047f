package mapping

import (
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/models"
)

// ToDomainBiller converts a model Biller to a domain Biller
func ToDomainBiller(m models.Biller) domain.Biller {
	return domain.Biller{
		BillerID:     m.BillerID,
		Name:         m.Name,
		Category:     domain.BillerCategory(m.Category),
		Status:       domain.BillerStatus(m.Status),
		CurrencyCode: m.CurrencyCode,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainBillerSlice converts a slice of model Billers to domain Billers
func ToDomainBillerSlice(ms []models.Biller) []domain.Biller {
	ds := make([]domain.Biller, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBiller(m)
	}
	return ds
}

// ToModelSavedBiller converts a domain SavedBiller to a model SavedBiller
func ToModelSavedBiller(d domain.SavedBiller) models.SavedBiller {
	return models.SavedBiller{
		UserID:            d.UserID,
		BillerID:          d.BillerID,
		Nickname:          d.Nickname,
		CustomerReference: d.CustomerReference,
		CreatedAt:         d.CreatedAt,
	}
}
