package repositories

import (
	"context"

	"marketplace/internal/models"
)

// MessageRepository defines data access for buyer messages. Messages are
// never updated or deleted.
type MessageRepository interface {
	// GetByListing returns the conversation for a listing, oldest first.
	GetByListing(ctx context.Context, listingID string) ([]models.Message, error)
	Create(ctx context.Context, message *models.Message) error
}
