package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/models"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
// It backs DATABASE_DRIVER=memory and the service tests.
type MockListingRepository struct {
	listings map[string]models.Listing
	order    []string // insertion order, breaks created_at ties
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]models.Listing),
	}
}

// GetAll returns all listings, newest first.
func (r *MockListingRepository) GetAll(ctx context.Context) ([]models.Listing, error) {
	return r.filter(func(models.Listing) bool { return true }), nil
}

// GetByCategory returns listings in exactly the given category.
func (r *MockListingRepository) GetByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	return r.filter(func(l models.Listing) bool { return l.Category == category }), nil
}

// Search returns listings whose title, description or category contains
// query, ignoring case.
func (r *MockListingRepository) Search(ctx context.Context, query string) ([]models.Listing, error) {
	q := strings.ToLower(query)
	return r.filter(func(l models.Listing) bool {
		if strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Category), q) {
			return true
		}
		return l.Description != nil && strings.Contains(strings.ToLower(*l.Description), q)
	}), nil
}

// GetByID returns a listing by its ID.
func (r *MockListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	return &listing, nil
}

// Create adds a new listing.
func (r *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	if listing.UpdatedAt.IsZero() {
		listing.UpdatedAt = listing.CreatedAt
	}
	if listing.Location == "" {
		listing.Location = models.DefaultLocation
	}
	if _, exists := r.listings[listing.ID]; !exists {
		r.order = append(r.order, listing.ID)
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Update applies column-keyed changes to an existing listing.
func (r *MockListingRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	if err := applyListingUpdates(&listing, updates); err != nil {
		return nil, err
	}
	listing.UpdatedAt = time.Now()
	r.listings[id] = listing
	return &listing, nil
}

// Delete removes a listing by its ID.
func (r *MockListingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	delete(r.listings, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MockListingRepository) filter(keep func(models.Listing) bool) []models.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Listing, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if l := r.listings[r.order[i]]; keep(l) {
			result = append(result, l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func applyListingUpdates(l *models.Listing, updates map[string]interface{}) error {
	for column, value := range updates {
		switch column {
		case "title":
			v, err := stringColumn(column, value)
			if err != nil {
				return err
			}
			l.Title = v
		case "description":
			l.Description = optionalString(value)
		case "price":
			price, ok := value.(float64)
			if !ok {
				return fmt.Errorf("price must be float64, got %T", value)
			}
			l.Price = price
		case "category":
			v, err := stringColumn(column, value)
			if err != nil {
				return err
			}
			l.Category = v
		case "seller_email":
			v, err := stringColumn(column, value)
			if err != nil {
				return err
			}
			l.SellerEmail = v
		case "image_url":
			l.ImageURL = optionalString(value)
		case "location":
			v, err := stringColumn(column, value)
			if err != nil {
				return err
			}
			l.Location = v
		default:
			return fmt.Errorf("unknown listing column %q", column)
		}
	}
	return nil
}

func stringColumn(column string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be string, got %T", column, value)
	}
	return s, nil
}

func optionalString(value interface{}) *string {
	switch v := value.(type) {
	case string:
		return &v
	case *string:
		return v
	default:
		return nil
	}
}
