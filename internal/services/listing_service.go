package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/validation"
)

// ListingService handles business logic related to listings.
type ListingService struct {
	repo   repositories.ListingRepository
	events EventPublisher
	log    *zap.Logger
}

// NewListingService creates a new ListingService. events may be nil.
func NewListingService(repo repositories.ListingRepository, events EventPublisher, log *zap.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// ListListings returns listings matching q, newest first. A search term wins
// over a category; with neither every listing is returned.
func (s *ListingService) ListListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	var (
		listings []models.Listing
		err      error
	)
	search := strings.TrimSpace(q.Search)
	switch {
	case search != "":
		listings, err = s.repo.Search(ctx, search)
	case q.Category != "":
		listings, err = s.repo.GetByCategory(ctx, q.Category)
	default:
		listings, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		s.log.Error("list listings failed",
			zap.String("search", search),
			zap.String("category", q.Category),
			zap.Error(err))
		return nil, err
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// GetListing retrieves a single listing by its path id.
func (s *ListingService) GetListing(ctx context.Context, rawID string) (*models.Listing, error) {
	id, err := validation.ValidateID(rawID)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logStoreError("get listing", id, err)
		return nil, err
	}
	return listing, nil
}

// CreateListing validates req, stores the listing and announces it.
func (s *ListingService) CreateListing(ctx context.Context, req models.CreateListingRequest) (*models.Listing, error) {
	listing, err := validation.ValidateCreateListing(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		s.log.Error("create listing failed", zap.String("seller_email", listing.SellerEmail), zap.Error(err))
		return nil, err
	}

	publish(s.events, s.log, models.EventListingCreated, models.ListingCreatedEvent{
		ListingID:   listing.ID,
		Title:       listing.Title,
		Price:       listing.Price,
		Category:    listing.Category,
		SellerEmail: listing.SellerEmail,
		CreatedAt:   listing.CreatedAt,
	})
	return listing, nil
}

// UpdateListing applies a merge-patch to a listing.
func (s *ListingService) UpdateListing(ctx context.Context, rawID string, req models.UpdateListingRequest) (*models.Listing, error) {
	id, err := validation.ValidateID(rawID)
	if err != nil {
		return nil, err
	}
	updates, err := validation.ValidateUpdateListing(req)
	if err != nil {
		return nil, err
	}
	listing, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logStoreError("update listing", id, err)
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a listing. Its messages are kept.
func (s *ListingService) DeleteListing(ctx context.Context, rawID string) error {
	id, err := validation.ValidateID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logStoreError("delete listing", id, err)
		return err
	}
	return nil
}

func (s *ListingService) logStoreError(op, id string, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Debug(op+": not found", zap.String("listing_id", id))
		return
	}
	s.log.Error(op+" failed", zap.String("listing_id", id), zap.Error(err))
}
