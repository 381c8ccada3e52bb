package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer turns listing moderation events into notifications for the
// listing creator.
type Consumer struct {
	repo         notificationCreator
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds a moderation notification consumer.
func NewConsumer(repo notificationCreator, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("listing events subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{repo: repo, subscription: subscription, logg: logg}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := c.process(ctx, msg.Data, msg.Attributes); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, data []byte, attributes map[string]string) error {
	logCtx := c.logg.WithField(ctx, "event_type", attributes["event_type"])

	var event listings.ListingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// Malformed payloads are dropped, redelivery cannot fix them.
		c.logg.Error(logCtx, "failed to decode listing event", err)
		return nil
	}
	if event.CreatorID == uuid.Nil || event.ListingID == uuid.Nil {
		c.logg.Warn(logCtx, "listing event missing ids, dropping")
		return nil
	}

	logCtx = c.logg.WithListingID(logCtx, event.ListingID.String())

	notification, ok := buildNotification(event)
	if !ok {
		c.logg.Info(logCtx, "event type not handled")
		return nil
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "failed to store notification", err)
		return err
	}
	c.logg.Info(logCtx, "creator notified of moderation event")
	return nil
}

func buildNotification(event listings.ListingEvent) (*models.Notification, bool) {
	listingID := event.ListingID
	switch event.Type {
	case listings.EventListingReported:
		return &models.Notification{
			UserID:    event.CreatorID,
			ListingID: &listingID,
			Type:      enums.NotificationTypeListingReported,
			Title:     "Listing reported",
			Message: fmt.Sprintf("Your listing %q was reported. It now has %d %s.",
				event.Title, event.ReportCount, pluralReports(event.ReportCount)),
		}, true
	case listings.EventListingSuspended:
		return &models.Notification{
			UserID:    event.CreatorID,
			ListingID: &listingID,
			Type:      enums.NotificationTypeListingSuspended,
			Title:     "Listing suspended",
			Message: fmt.Sprintf("Your listing %q was suspended after %d reports and is no longer publicly visible.",
				event.Title, event.ReportCount),
		}, true
	default:
		return nil, false
	}
}

func pluralReports(count int) string {
	if count == 1 {
		return "report"
	}
	return "reports"
}
