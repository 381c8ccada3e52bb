package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

const defaultFlushInterval = 10 * time.Second

type viewWriter interface {
	InsertView(ctx context.Context, row ViewEventRow) error
	Flush(ctx context.Context) error
}

// Consumer drains the view events subscription into BigQuery.
type Consumer struct {
	subscription  *gcppubsub.Subscriber
	writer        viewWriter
	flushInterval time.Duration
	logg          *logger.Logger
}

// NewConsumer builds a view analytics consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, writer viewWriter, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("view events subscription required")
	}
	if writer == nil {
		return nil, errors.New("view writer required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Consumer{
		subscription:  subscription,
		writer:        writer,
		flushInterval: defaultFlushInterval,
		logg:          logg,
	}, nil
}

// Run consumes view events until the context is canceled. Buffered rows are
// flushed on an interval and once more on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	flushCtx, stopFlusher := context.WithCancel(ctx)
	defer stopFlusher()
	go c.flushLoop(flushCtx)

	err := c.subscription.Receive(ctx, func(ctx context.Context, msg *gcppubsub.Message) {
		if nack := c.process(ctx, msg.Data); nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if flushErr := c.writer.Flush(drainCtx); flushErr != nil {
		c.logg.Error(drainCtx, "final flush failed", flushErr)
	}
	return err
}

func (c *Consumer) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.writer.Flush(ctx); err != nil {
				c.logg.Error(ctx, "view event flush failed", err)
			}
		}
	}
}

// process returns true when the message should be redelivered.
func (c *Consumer) process(ctx context.Context, data []byte) bool {
	var event listings.ViewEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(ctx, "failed to decode view event", err)
		return false
	}
	if event.ListingID == uuid.Nil {
		c.logg.Warn(ctx, "view event missing listing id, dropping")
		return false
	}

	row := ViewEventRow{
		ListingID:  event.ListingID.String(),
		OccurredAt: event.OccurredAt.UTC(),
		ReceivedAt: time.Now().UTC(),
	}
	if err := c.writer.InsertView(ctx, row); err != nil {
		c.logg.Error(c.logg.WithListingID(ctx, row.ListingID), "view event insert failed", err)
		return true
	}
	return false
}
