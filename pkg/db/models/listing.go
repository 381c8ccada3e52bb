package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/kejahlabs/kejah-backend/pkg/db/types"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// Location holds the flattened address columns of a listing. The columns
// are plain scalars so the same schema works on Postgres and SQLite.
type Location struct {
	Lat     float64 `gorm:"column:lat"`
	Lng     float64 `gorm:"column:lng"`
	Address string  `gorm:"column:address;not null"`
	City    string  `gorm:"column:city;not null"`
	State   string  `gorm:"column:state"`
	Zip     string  `gorm:"column:zip"`
}

// Listing is the canonical property listing entity. IDs are assigned by the
// application as UUIDv7 so primary key order follows insertion order.
type Listing struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey"`
	CreatorID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Title         string               `gorm:"type:text;not null"`
	Description   string               `gorm:"type:text;not null"`
	Price         decimal.Decimal      `gorm:"type:numeric(14,2);not null"`
	Type          enums.ListingType    `gorm:"type:text;not null;index"`
	Bedrooms      int                  `gorm:"not null"`
	Bathrooms     int                  `gorm:"not null"`
	Sqft          *int                 `gorm:"column:sqft"`
	Amenities     dbtypes.StringList   `gorm:"type:text;not null"`
	Images        dbtypes.StringList   `gorm:"type:text;not null"`
	Location      Location             `gorm:"embedded;embeddedPrefix:location_"`
	Status        enums.ListingStatus  `gorm:"type:text;not null;index"`
	ReportCount   int                  `gorm:"column:report_count;not null"`
	Views         int64                `gorm:"not null"`
	Featured      bool                 `gorm:"not null"`
	Package       enums.ListingPackage `gorm:"type:text;not null"`
	AmountPaid    decimal.Decimal      `gorm:"column:amount_paid;type:numeric(14,2);not null"`
	PaymentStatus enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
