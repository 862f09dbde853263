package repositories

import (
	"context"

	"marketplace/internal/models"
)

// ListingRepository defines data access for listings. List methods return
// newest listings first.
type ListingRepository interface {
	GetAll(ctx context.Context) ([]models.Listing, error)
	GetByCategory(ctx context.Context, category string) ([]models.Listing, error)
	Search(ctx context.Context, query string) ([]models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
}
