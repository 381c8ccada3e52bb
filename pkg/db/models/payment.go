package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// Payment records a listing package fee collected through Square.
type Payment struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	ListingID       *uuid.UUID           `gorm:"column:listing_id;type:uuid;index"`
	Package         enums.ListingPackage `gorm:"type:text;not null"`
	Amount          decimal.Decimal      `gorm:"type:numeric(14,2);not null"`
	Currency        string               `gorm:"type:text;not null"`
	SquarePaymentID string               `gorm:"column:square_payment_id"`
	Status          enums.PaymentStatus  `gorm:"type:text;not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
