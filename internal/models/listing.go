package models

import "time"

// DefaultLocation is stored when a listing is created without a location.
const DefaultLocation = "Unknown"

// Listing represents an item offered for sale.
type Listing struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"index;not null"`
	SellerEmail string    `json:"seller_email" gorm:"not null"`
	ImageURL    *string   `json:"image_url"`
	Location    string    `json:"location" gorm:"not null;default:Unknown"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateListingRequest is the body of POST /api/listings.
// Pointer fields distinguish an absent field from an empty one.
type CreateListingRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       interface{} `json:"price"` // kept raw so non-numeric prices report InvalidPrice
	Category    *string     `json:"category"`
	SellerEmail *string     `json:"seller_email"`
	ImageURL    *string     `json:"image_url"`
	Location    *string     `json:"location"`
}

// UpdateListingRequest is the merge-patch body of PUT /api/listings/:id.
// Only non-nil fields are written; identity and timestamps are not patchable.
type UpdateListingRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       interface{} `json:"price"`
	Category    *string     `json:"category"`
	SellerEmail *string     `json:"seller_email"`
	ImageURL    *string     `json:"image_url"`
	Location    *string     `json:"location"`
}

// ListingQuery carries the optional filters of GET /api/listings.
type ListingQuery struct {
	Category string
	Search   string
}
