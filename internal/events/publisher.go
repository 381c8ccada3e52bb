package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	pubsubpkg "github.com/kejahlabs/kejah-backend/pkg/pubsub"
)

const publishTimeout = 15 * time.Second

// viewEventType is the attribute value stamped on view events so consumers
// can filter without decoding the payload.
const viewEventType = "listing.viewed"

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// Publisher emits listing moderation and view events to their Pub/Sub topics.
// It satisfies the listing service's publishing surface.
type Publisher struct {
	listingTopic topicPublisher
	viewTopic    topicPublisher
}

// NewPublisher builds a publisher on top of the shared Pub/Sub client.
func NewPublisher(client *pubsubpkg.Client) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	listingTopic := wrapTopic(client.ListingEventsPublisher())
	viewTopic := wrapTopic(client.ViewEventsPublisher())
	if listingTopic == nil || viewTopic == nil {
		return nil, fmt.Errorf("pubsub topics not configured")
	}
	return &Publisher{listingTopic: listingTopic, viewTopic: viewTopic}, nil
}

// PublishListingEvent sends a moderation event to the listing events topic.
func (p *Publisher) PublishListingEvent(ctx context.Context, event listings.ListingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode listing event: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type":  string(event.Type),
			"listing_id":  event.ListingID.String(),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	return p.publish(ctx, p.listingTopic, msg)
}

// PublishViewEvent sends a view event to the view events topic.
func (p *Publisher) PublishViewEvent(ctx context.Context, event listings.ViewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode view event: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type":  viewEventType,
			"listing_id":  event.ListingID.String(),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	return p.publish(ctx, p.viewTopic, msg)
}

func (p *Publisher) publish(ctx context.Context, topic topicPublisher, msg *gcppubsub.Message) error {
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := topic.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func wrapTopic(p *gcppubsub.Publisher) topicPublisher {
	if p == nil {
		return nil
	}
	return &gcpTopic{publisher: p}
}

type gcpTopic struct {
	publisher *gcppubsub.Publisher
}

func (t *gcpTopic) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return t.publisher.Publish(ctx, msg)
}
