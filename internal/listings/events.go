package listings

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names the moderation events emitted after commit.
type EventType string

const (
	EventListingReported  EventType = "listing.reported"
	EventListingSuspended EventType = "listing.suspended"
)

// ListingEvent is published to the listing events topic whenever a listing
// is reported or suspended.
type ListingEvent struct {
	Type        EventType `json:"type"`
	ListingID   uuid.UUID `json:"listing_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	ReportCount int       `json:"report_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ViewEvent is published to the view events topic on every detail read.
type ViewEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher is the post-commit, best-effort publishing surface the
// service depends on. Failures are logged, never surfaced to callers.
type EventPublisher interface {
	PublishListingEvent(ctx context.Context, event ListingEvent) error
	PublishViewEvent(ctx context.Context, event ViewEvent) error
}
