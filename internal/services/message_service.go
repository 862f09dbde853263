package services

import (
	"context"

	"go.uber.org/zap"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/validation"
)

// MessageService handles buyer-to-seller messages.
type MessageService struct {
	repo   repositories.MessageRepository
	events EventPublisher
	log    *zap.Logger
}

// NewMessageService creates a new MessageService. events may be nil.
func NewMessageService(repo repositories.MessageRepository, events EventPublisher, log *zap.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// ListMessages returns the conversation about a listing, oldest first.
// The listing itself is not required to exist.
func (s *MessageService) ListMessages(ctx context.Context, rawListingID string) ([]models.Message, error) {
	listingID, err := validation.ValidateListingIDParam(rawListingID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.GetByListing(ctx, listingID)
	if err != nil {
		s.log.Error("list messages failed", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// SendMessage validates and stores a message, then hands it to the seller
// notifier.
func (s *MessageService) SendMessage(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	message, err := validation.ValidateSendMessage(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, message); err != nil {
		s.log.Error("send message failed", zap.String("listing_id", message.ListingID), zap.Error(err))
		return nil, err
	}

	publish(s.events, s.log, models.EventMessageSent, models.MessageSentEvent{
		MessageID:   message.ID,
		ListingID:   message.ListingID,
		BuyerEmail:  message.BuyerEmail,
		SellerEmail: message.SellerEmail,
		Message:     message.Body,
		CreatedAt:   message.CreatedAt,
	})
	return message, nil
}
