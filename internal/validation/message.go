package validation

import (
	"strings"
	"unicode/utf8"

	"marketplace/internal/models"
)

// ValidateSendMessage checks a buyer message and returns the normalized row to
// insert. Whether the listing exists is not checked here.
func ValidateSendMessage(req models.SendMessageRequest) (*models.Message, error) {
	if blank(req.ListingID) || blank(req.BuyerEmail) || blank(req.SellerEmail) || req.Message == nil || *req.Message == "" {
		return nil, newError(MissingField, "Missing required fields",
			"listing_id, buyer_email, seller_email, and message are required")
	}

	if validate.Var(*req.ListingID, "uuid4ci") != nil {
		return nil, newError(InvalidListingID, "Invalid listing ID", "listing_id must be a valid UUID")
	}

	if !validEmail(*req.BuyerEmail) {
		return nil, newError(InvalidEmail, "Invalid buyer email", "buyer_email must be a valid email address")
	}
	if !validEmail(*req.SellerEmail) {
		return nil, newError(InvalidEmail, "Invalid seller email", "seller_email must be a valid email address")
	}

	body := strings.TrimSpace(*req.Message)
	if validate.Var(body, "min=1") != nil {
		return nil, newError(EmptyMessage, "Empty message", "Message cannot be empty")
	}
	if utf8.RuneCountInString(body) > models.MaxMessageLength {
		return nil, newError(MessageTooLong, "Message too long", "Message cannot exceed 1000 characters")
	}

	buyer := NormalizeEmail(*req.BuyerEmail)
	seller := NormalizeEmail(*req.SellerEmail)
	if buyer == seller {
		return nil, newError(SelfMessage, "Invalid recipient", "Cannot send message to yourself")
	}

	return &models.Message{
		ListingID:   strings.ToLower(*req.ListingID),
		BuyerEmail:  buyer,
		SellerEmail: seller,
		Body:        body,
	}, nil
}
