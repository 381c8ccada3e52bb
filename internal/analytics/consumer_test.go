package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

type recordingWriter struct {
	rows    []ViewEventRow
	flushes int
	err     error
}

func (w *recordingWriter) InsertView(ctx context.Context, row ViewEventRow) error {
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, row)
	return nil
}

func (w *recordingWriter) Flush(ctx context.Context) error {
	w.flushes++
	return nil
}

func newTestAnalyticsConsumer(writer viewWriter) *Consumer {
	return &Consumer{
		writer:        writer,
		flushInterval: defaultFlushInterval,
		logg:          logger.New(logger.Options{ServiceName: "test"}),
	}
}

func TestConsumerWritesViewRow(t *testing.T) {
	writer := &recordingWriter{}
	consumer := newTestAnalyticsConsumer(writer)

	event := listings.ViewEvent{
		ListingID:  uuid.New(),
		OccurredAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	nack := consumer.process(context.Background(), data)
	require.False(t, nack)
	require.Len(t, writer.rows, 1)
	require.Equal(t, event.ListingID.String(), writer.rows[0].ListingID)
	require.Equal(t, event.OccurredAt, writer.rows[0].OccurredAt)
	require.False(t, writer.rows[0].ReceivedAt.IsZero())
}

func TestConsumerDropsMalformedViewEvent(t *testing.T) {
	writer := &recordingWriter{}
	consumer := newTestAnalyticsConsumer(writer)

	nack := consumer.process(context.Background(), []byte("{broken"))
	require.False(t, nack)
	require.Empty(t, writer.rows)
}

func TestConsumerDropsViewEventWithoutListing(t *testing.T) {
	writer := &recordingWriter{}
	consumer := newTestAnalyticsConsumer(writer)

	data, err := json.Marshal(listings.ViewEvent{OccurredAt: time.Now().UTC()})
	require.NoError(t, err)

	nack := consumer.process(context.Background(), data)
	require.False(t, nack)
	require.Empty(t, writer.rows)
}

func TestConsumerNacksOnWriterError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("insert failed")}
	consumer := newTestAnalyticsConsumer(writer)

	data, err := json.Marshal(listings.ViewEvent{ListingID: uuid.New(), OccurredAt: time.Now().UTC()})
	require.NoError(t, err)

	nack := consumer.process(context.Background(), data)
	require.True(t, nack)
}
