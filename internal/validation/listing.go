package validation

import (
	"strings"

	"marketplace/internal/models"
)

var (
	errListingMissing = newError(MissingField, "Missing required fields",
		"title, description, price, category, and seller_email are required")
	errPrice    = newError(InvalidPrice, "Invalid price", "Price must be a positive number")
	errEmail    = newError(InvalidEmail, "Invalid email", "Please provide a valid email address")
	errImageURL = newError(InvalidImageURL, "Invalid image URL", "image_url must be an http or https URL")
)

// ValidateCreateListing checks a create request and returns the normalized
// listing to insert. The first failing rule decides the error.
func ValidateCreateListing(req models.CreateListingRequest) (*models.Listing, error) {
	if blank(req.Title) || blank(req.Description) || req.Price == nil || blank(req.Category) || blank(req.SellerEmail) {
		return nil, errListingMissing
	}

	price, ok := positivePrice(req.Price)
	if !ok {
		return nil, errPrice
	}

	if !validEmail(*req.SellerEmail) {
		return nil, errEmail
	}

	var imageURL *string
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		u := strings.TrimSpace(*req.ImageURL)
		if !validURL(u) {
			return nil, errImageURL
		}
		imageURL = &u
	}

	location := models.DefaultLocation
	if !blank(req.Location) {
		location = strings.TrimSpace(*req.Location)
	}

	description := strings.TrimSpace(*req.Description)
	return &models.Listing{
		Title:       strings.TrimSpace(*req.Title),
		Description: &description,
		Price:       price,
		Category:    *req.Category,
		SellerEmail: NormalizeEmail(*req.SellerEmail),
		ImageURL:    imageURL,
		Location:    location,
	}, nil
}

// ValidateUpdateListing checks the fields present in a merge-patch and returns
// them keyed by column name. An empty image_url clears the image.
func ValidateUpdateListing(req models.UpdateListingRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if req.Title != nil {
		if blank(req.Title) {
			return nil, newError(InvalidField, "Invalid title", "title cannot be empty")
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		price, ok := positivePrice(req.Price)
		if !ok {
			return nil, errPrice
		}
		updates["price"] = price
	}
	if req.Category != nil {
		if blank(req.Category) {
			return nil, newError(InvalidField, "Invalid category", "category cannot be empty")
		}
		updates["category"] = *req.Category
	}
	if req.SellerEmail != nil {
		if !validEmail(*req.SellerEmail) {
			return nil, errEmail
		}
		updates["seller_email"] = NormalizeEmail(*req.SellerEmail)
	}
	if req.ImageURL != nil {
		u := strings.TrimSpace(*req.ImageURL)
		switch {
		case u == "":
			updates["image_url"] = nil
		case !validURL(u):
			return nil, errImageURL
		default:
			updates["image_url"] = u
		}
	}
	if req.Location != nil {
		if blank(req.Location) {
			updates["location"] = models.DefaultLocation
		} else {
			updates["location"] = strings.TrimSpace(*req.Location)
		}
	}

	return updates, nil
}
