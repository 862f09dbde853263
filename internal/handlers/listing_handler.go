package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
)

const (
	listCacheControl   = "public, max-age=60, s-maxage=300"
	detailCacheControl = "public, max-age=300, s-maxage=600"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service *services.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service: service,
	}
}

// RegisterRoutes registers the listing routes with the Fiber router.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleGetListings)
	listingRoutes.Get("/:id", h.HandleGetListingByID)
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
}

// HandleGetListings lists listings, filtered by ?search= or ?category=.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	query := models.ListingQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	listings, err := h.service.ListListings(c.UserContext(), query)
	if err != nil {
		return respondFailure(c, err, "Failed to fetch listings", "Internal server error")
	}

	c.Set(fiber.HeaderCacheControl, listCacheControl)
	c.Set(fiber.HeaderVary, "category, search")
	return respondSuccess(c, fiber.StatusOK, listings, "Listings retrieved successfully")
}

// HandleGetListingByID retrieves a single listing and attaches cache validators.
func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	id := c.Params("id")
	listing, err := h.service.GetListing(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return listingNotFound(c, id)
		}
		return respondFailure(c, err, "Failed to fetch listing", "Internal server error")
	}

	c.Set(fiber.HeaderCacheControl, detailCacheControl)
	c.Set(fiber.HeaderETag, fmt.Sprintf(`"%s-%d"`, listing.ID, listing.UpdatedAt.UnixMilli()))
	return respondSuccess(c, fiber.StatusOK, listing, "Listing retrieved successfully")
}

// HandleCreateListing creates a new listing.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var req models.CreateListingRequest
	if err := parseJSON(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, titleInvalidJSON, detailInvalidJSON)
	}

	listing, err := h.service.CreateListing(c.UserContext(), req)
	if err != nil {
		return respondFailure(c, err, "Failed to create listing", detailStoreFailed)
	}
	return respondSuccess(c, fiber.StatusCreated, listing, "Listing created successfully")
}

// HandleUpdateListing merge-patches an existing listing.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	id := c.Params("id")
	var req models.UpdateListingRequest
	if err := parseJSON(c, &req); err != nil {
		return respondError(c, fiber.StatusBadRequest, titleInvalidJSON, detailInvalidJSON)
	}

	listing, err := h.service.UpdateListing(c.UserContext(), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return listingNotFound(c, id)
		}
		return respondFailure(c, err, "Failed to update listing", detailStoreFailed)
	}
	return respondSuccess(c, fiber.StatusOK, listing, "Listing updated successfully")
}

// HandleDeleteListing deletes a listing by its ID.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteListing(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return listingNotFound(c, id)
		}
		return respondFailure(c, err, "Failed to delete listing", detailStoreFailed)
	}
	return respondSuccess(c, fiber.StatusOK, nil, "Listing deleted successfully")
}

func listingNotFound(c *fiber.Ctx, id string) error {
	return respondError(c, fiber.StatusNotFound, "Listing not found", "No listing found with ID: "+id)
}
