package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

func newTestConsumer(t *testing.T, repo notificationCreator) *Consumer {
	t.Helper()
	return &Consumer{
		repo: repo,
		logg: logger.New(logger.Options{ServiceName: "test"}),
	}
}

func marshalEvent(t *testing.T, event listings.ListingEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestConsumerReportedEventNotifiesCreator(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	consumer := newTestConsumer(t, repo)

	event := listings.ListingEvent{
		Type:        listings.EventListingReported,
		ListingID:   uuid.New(),
		CreatorID:   uuid.New(),
		Title:       "Two bedroom in Westlands",
		ReportCount: 1,
		OccurredAt:  time.Now().UTC(),
	}

	err := consumer.process(context.Background(), marshalEvent(t, event), map[string]string{"event_type": string(event.Type)})
	require.NoError(t, err)

	var stored models.Notification
	require.NoError(t, conn.First(&stored).Error)
	require.Equal(t, event.CreatorID, stored.UserID)
	require.NotNil(t, stored.ListingID)
	require.Equal(t, event.ListingID, *stored.ListingID)
	require.Equal(t, enums.NotificationTypeListingReported, stored.Type)
	require.Contains(t, stored.Message, "Two bedroom in Westlands")
	require.Contains(t, stored.Message, "1 report.")
}

func TestConsumerSuspendedEventNotifiesCreator(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	consumer := newTestConsumer(t, repo)

	event := listings.ListingEvent{
		Type:        listings.EventListingSuspended,
		ListingID:   uuid.New(),
		CreatorID:   uuid.New(),
		Title:       "Bungalow in Nyali",
		ReportCount: 3,
		OccurredAt:  time.Now().UTC(),
	}

	err := consumer.process(context.Background(), marshalEvent(t, event), map[string]string{"event_type": string(event.Type)})
	require.NoError(t, err)

	var stored models.Notification
	require.NoError(t, conn.First(&stored).Error)
	require.Equal(t, enums.NotificationTypeListingSuspended, stored.Type)
	require.Contains(t, stored.Message, "suspended after 3 reports")
}

func TestConsumerDropsMalformedPayload(t *testing.T) {
	conn := openTestDB(t)
	consumer := newTestConsumer(t, NewRepository(conn))

	err := consumer.process(context.Background(), []byte("{not json"), nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestConsumerDropsUnknownEventType(t *testing.T) {
	conn := openTestDB(t)
	consumer := newTestConsumer(t, NewRepository(conn))

	event := listings.ListingEvent{
		Type:      listings.EventType("listing.archived"),
		ListingID: uuid.New(),
		CreatorID: uuid.New(),
	}
	err := consumer.process(context.Background(), marshalEvent(t, event), nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestConsumerDropsEventMissingIDs(t *testing.T) {
	conn := openTestDB(t)
	consumer := newTestConsumer(t, NewRepository(conn))

	event := listings.ListingEvent{Type: listings.EventListingReported, Title: "No ids"}
	err := consumer.process(context.Background(), marshalEvent(t, event), nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}
