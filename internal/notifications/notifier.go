// Package notifications turns marketplace events into emails for sellers.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"

	"marketplace/internal/format"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

const sendTimeout = 30 * time.Second

// ListingFinder looks up the listing an event refers to.
type ListingFinder interface {
	GetByID(ctx context.Context, id string) (*models.Listing, error)
}

// Notifier emails sellers about new listings and buyer messages.
type Notifier struct {
	listings ListingFinder
	mailer   Mailer
	log      *zap.Logger
	now      func() time.Time
}

// NewNotifier creates a Notifier.
func NewNotifier(listings ListingFinder, mailer Mailer, log *zap.Logger) *Notifier {
	return &Notifier{
		listings: listings,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
	}
}

// HandleDelivery is a rabbitmq.Handler. Unknown event types are acked and ignored.
func (n *Notifier) HandleDelivery(msg amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	return n.Handle(ctx, msg.Type, msg.Body)
}

// Handle decodes an event body and sends the matching email.
func (n *Notifier) Handle(ctx context.Context, eventType string, body []byte) error {
	switch eventType {
	case models.EventMessageSent:
		var event models.MessageSentEvent
		if err := json.Unmarshal(body, &event); err != nil {
			n.log.Warn("dropping malformed event", zap.String("type", eventType), zap.Error(err))
			return nil
		}
		return n.messageSent(ctx, event)
	case models.EventListingCreated:
		var event models.ListingCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			n.log.Warn("dropping malformed event", zap.String("type", eventType), zap.Error(err))
			return nil
		}
		return n.listingCreated(ctx, event)
	default:
		n.log.Debug("ignoring event", zap.String("type", eventType))
		return nil
	}
}

func (n *Notifier) messageSent(ctx context.Context, event models.MessageSentEvent) error {
	listing, err := n.listings.GetByID(ctx, event.ListingID)
	if errors.Is(err, repositories.ErrNotFound) {
		n.log.Info("listing gone, skipping seller notification",
			zap.String("listing_id", event.ListingID),
			zap.String("message_id", event.MessageID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load listing %s: %w", event.ListingID, err)
	}

	mail := Mail{
		To:      event.SellerEmail,
		ReplyTo: event.BuyerEmail,
		Subject: fmt.Sprintf("New message about %q", listing.Title),
		Body: fmt.Sprintf("You have a new message about your listing %q (%s), posted %s.\n\nFrom: %s\n\n%s\n\nReply to this email to answer the buyer.\n",
			listing.Title,
			format.Price(listing.Price),
			format.RelativeAge(listing.CreatedAt, n.now()),
			event.BuyerEmail,
			event.Message),
	}
	if err := n.mailer.Send(ctx, mail); err != nil {
		return err
	}
	n.log.Info("seller notified of message",
		zap.String("listing_id", event.ListingID),
		zap.String("message_id", event.MessageID))
	return nil
}

func (n *Notifier) listingCreated(ctx context.Context, event models.ListingCreatedEvent) error {
	mail := Mail{
		To:      event.SellerEmail,
		Subject: fmt.Sprintf("Your listing %q is live", event.Title),
		Body: fmt.Sprintf("%q is now listed in %s for %s.\n\nListing ID: %s\n",
			event.Title, event.Category, format.Price(event.Price), event.ListingID),
	}
	if err := n.mailer.Send(ctx, mail); err != nil {
		return err
	}
	n.log.Info("seller notified of new listing", zap.String("listing_id", event.ListingID))
	return nil
}
