package users

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	DisplayName   string             `json:"display_name"`
	Role          enums.UserRole     `json:"role"`
	AuthProvider  enums.AuthProvider `json:"auth_provider"`
	PhotoURL      string             `json:"photo_url,omitempty"`
	Phone         *string            `json:"phone,omitempty"`
	PhoneVerified bool               `json:"phone_verified"`
	IsActive      bool               `json:"is_active"`
	LastLoginAt   *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AgentDTO is the public directory shape. It never exposes email,
// verification state, or activity timestamps.
type AgentDTO struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Role         enums.UserRole
	AuthProvider enums.AuthProvider
	PhotoURL     string
	Phone        *string
	IsActive     *bool
}

// UpdateProfileInput carries the mutable profile fields. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	DisplayName *string
	PhotoURL    *string
	Phone       *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Role:          u.Role,
		AuthProvider:  u.AuthProvider,
		PhotoURL:      u.PhotoURL,
		Phone:         u.Phone,
		PhoneVerified: u.PhoneVerified,
		IsActive:      u.IsActive,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// AgentFromModel maps a user into the public agent shape. Phone is only
// exposed once verified.
func AgentFromModel(u *models.User) *AgentDTO {
	if u == nil {
		return nil
	}

	agent := &AgentDTO{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
	if u.PhoneVerified {
		agent.Phone = u.Phone
	}
	return agent
}

func AgentsFromModels(in []models.User) []AgentDTO {
	out := make([]AgentDTO, 0, len(in))
	for i := range in {
		out = append(out, *AgentFromModel(&in[i]))
	}
	return out
}

// placeholderPhotoURL is the generated avatar used when an account has no
// photo of its own, keyed by display name.
func placeholderPhotoURL(displayName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(displayName)
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	photoURL := c.PhotoURL
	if photoURL == "" {
		photoURL = placeholderPhotoURL(c.DisplayName)
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		DisplayName:  c.DisplayName,
		Role:         c.Role,
		AuthProvider: c.AuthProvider,
		PhotoURL:     photoURL,
		Phone:        c.Phone,
		IsActive:     isActive,
	}
}
