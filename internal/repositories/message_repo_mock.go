package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/models"
)

// MockMessageRepository is an in-memory implementation of MessageRepository.
type MockMessageRepository struct {
	messages []models.Message
	mu       sync.RWMutex
}

// NewMockMessageRepository creates a new instance of MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{}
}

// GetByListing returns the messages about a listing oldest first.
func (r *MockMessageRepository) GetByListing(ctx context.Context, listingID string) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Message, 0)
	for _, m := range r.messages {
		if m.ListingID == listingID {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Create appends a new message.
func (r *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, *message)
	return nil
}
