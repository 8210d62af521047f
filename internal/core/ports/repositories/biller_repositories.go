package repositories

import (
	"context"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
)

// BillerReader defines read operations for billers
type BillerReader interface {
	FindBillerByID(ctx context.Context, billerID string) (*domain.Biller, error)
	// ListBillers returns billers, optionally narrowed to a category, ordered by name.
	ListBillers(ctx context.Context, category *domain.BillerCategory) ([]domain.Biller, error)
	ListSavedBillers(ctx context.Context, userID string) ([]domain.SavedBiller, error)
}

// BillerWriter defines write operations for billers
type BillerWriter interface {
	// SaveSavedBiller bookmarks a biller for a user. Returns apperrors.ErrDuplicate if already saved.
	SaveSavedBiller(ctx context.Context, saved domain.SavedBiller) error
	// DeleteSavedBiller removes a bookmark. Returns apperrors.ErrNotFound if it does not exist.
	DeleteSavedBiller(ctx context.Context, userID, billerID string) error
}

// BillerRepositoryFacade combines all biller-related repository interfaces
type BillerRepositoryFacade interface {
	BillerReader
	BillerWriter
}
