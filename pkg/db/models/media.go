package models

import (
	"time"

	"github.com/google/uuid"
)

// Media captures metadata for uploaded listing images.
type Media struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	GCSKey    string    `gorm:"column:gcs_key;not null;unique"`
	URL       string    `gorm:"column:url;not null"`
	FileName  string    `gorm:"column:file_name;not null"`
	MimeType  string    `gorm:"column:mime_type;not null"`
	SizeBytes int64     `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table to "media" instead of the pluralized default.
func (Media) TableName() string { return "media" }
