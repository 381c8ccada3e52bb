package analytics

import "time"

// ViewEventRow mirrors the listing_view_events BigQuery schema.
type ViewEventRow struct {
	ListingID  string    `bigquery:"listing_id"`
	OccurredAt time.Time `bigquery:"occurred_at"`
	ReceivedAt time.Time `bigquery:"received_at"`
}
