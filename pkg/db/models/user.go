package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// User represents the canonical identity entity. AuthProvider is the
// permanent sign-in binding recorded on first registration.
type User struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Email         string             `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string             `gorm:"column:password_hash;not null"`
	DisplayName   string             `gorm:"column:display_name;not null"`
	Role          enums.UserRole     `gorm:"type:text;not null;index"`
	AuthProvider  enums.AuthProvider `gorm:"column:auth_provider;type:text;not null"`
	PhotoURL      string             `gorm:"column:photo_url;not null"`
	Phone         *string            `gorm:"column:phone"`
	PhoneVerified bool               `gorm:"column:phone_verified;not null"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time         `gorm:"column:last_login_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
