package models

import "time"

// MaxMessageLength bounds the trimmed message body, in characters.
const MaxMessageLength = 1000

// Message is a buyer-to-seller note about a single listing.
type Message struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ListingID   string    `json:"listing_id" gorm:"index;type:varchar(36);not null"`
	BuyerEmail  string    `json:"buyer_email" gorm:"not null"`
	SellerEmail string    `json:"seller_email" gorm:"not null"`
	Body        string    `json:"message" gorm:"column:message;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest is the body of POST /api/messages.
type SendMessageRequest struct {
	ListingID   *string `json:"listing_id"`
	BuyerEmail  *string `json:"buyer_email"`
	SellerEmail *string `json:"seller_email"`
	Message     *string `json:"message"`
}
