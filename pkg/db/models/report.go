package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// Report records a single moderation report filed against a listing.
type Report struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ListingID  uuid.UUID          `gorm:"column:listing_id;type:uuid;not null;index"`
	ReporterID uuid.UUID          `gorm:"column:reporter_id;type:uuid;not null"`
	Reason     string             `gorm:"type:text;not null"`
	Status     enums.ReportStatus `gorm:"type:text;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
}
