package auth

import (
	"github.com/kejahlabs/kejah-backend/internal/users"
)

// RegisterRequest contains the payload for email/password onboarding.
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName string  `json:"display_name" validate:"required"`
	Role        string  `json:"role" validate:"required,oneof=buyer agent"`
	Phone       *string `json:"phone,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleSignInRequest carries the Google ID token from the client.
type GoogleSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Role    string `json:"role,omitempty" validate:"omitempty,oneof=buyer agent"`
}

// RefreshRequest carries the refresh token plus the expired access token
// whose jti identifies the session being rotated.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains the token pair and user produced by a successful
// sign-in.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshResponse holds the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
