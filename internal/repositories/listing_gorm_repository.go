package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/models"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves every listing, newest first.
func (r *GORMListingRepository) GetAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all listings: %w", err)
	}
	return listings, nil
}

// GetByCategory retrieves listings whose category equals category exactly.
func (r *GORMListingRepository) GetByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get listings by category %s: %w", category, err)
	}
	return listings, nil
}

// likeEscaper makes LIKE treat the query's wildcard characters literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const searchClause = `LOWER(title) LIKE ? ESCAPE '\' OR ` +
	`LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\' OR ` +
	`LOWER(category) LIKE ? ESCAPE '\'`

// Search retrieves listings whose title, description or category contains
// query as a plain substring, ignoring case.
func (r *GORMListingRepository) Search(ctx context.Context, query string) ([]models.Listing, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Where(searchClause, pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search listings for %q: %w", query, err)
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, err)
	}
	return &listing, nil
}

// Create inserts a listing, assigning its ID and timestamps.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update writes the given columns and refreshes updated_at.
func (r *GORMListingRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Listing, error) {
	values := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete hard-deletes a listing by its ID.
func (r *GORMListingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
