package models

import "time"

// Routing keys for marketplace events.
const (
	EventListingCreated = "listing.created"
	EventMessageSent    = "message.sent"
)

// ListingCreatedEvent is published after a listing is stored.
type ListingCreatedEvent struct {
	ListingID   string    `json:"listing_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	SellerEmail string    `json:"seller_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageSentEvent is published after a buyer message is stored.
type MessageSentEvent struct {
	MessageID   string    `json:"message_id"`
	ListingID   string    `json:"listing_id"`
	BuyerEmail  string    `json:"buyer_email"`
	SellerEmail string    `json:"seller_email"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
