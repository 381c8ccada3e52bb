package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

// Identity is the verified profile extracted from a Google ID token.
type Identity struct {
	Subject  string
	Email    string
	Name     string
	PhotoURL string
}

// IdentityVerifier validates a Google ID token and returns the profile it
// asserts. Implementations talk to Google's tokeninfo endpoint.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier checks ID tokens against Google's tokeninfo endpoint,
// which validates the signature and expiry server-side. The audience is
// checked here against the configured OAuth client.
type GoogleVerifier struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
}

// GoogleVerifierOption customizes the verifier.
type GoogleVerifierOption func(*GoogleVerifier)

// WithVerifierHTTPClient overrides the HTTP client used for tokeninfo calls.
func WithVerifierHTTPClient(client *http.Client) GoogleVerifierOption {
	return func(v *GoogleVerifier) {
		if client != nil {
			v.httpClient = client
		}
	}
}

// WithVerifierBaseURL overrides the tokeninfo endpoint.
func WithVerifierBaseURL(baseURL string) GoogleVerifierOption {
	return func(v *GoogleVerifier) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			v.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// NewGoogleVerifier builds a verifier bound to one OAuth client ID.
func NewGoogleVerifier(clientID string, opts ...GoogleVerifierOption) (*GoogleVerifier, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("google oauth client id is required")
	}
	verifier := &GoogleVerifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultTokenInfoURL,
		clientID:   clientID,
	}
	for _, opt := range opts {
		opt(verifier)
	}
	return verifier, nil
}

type tokenInfoResponse struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token is required")
	}

	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building tokeninfo request")
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling google tokeninfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google rejected the id token")
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding tokeninfo response")
	}

	if info.Audience != v.clientID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token was issued for a different client")
	}
	if info.Subject == "" || info.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token is missing identity claims")
	}
	if info.EmailVerified != "true" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google account email is not verified")
	}

	return &Identity{
		Subject:  info.Subject,
		Email:    strings.ToLower(info.Email),
		Name:     info.Name,
		PhotoURL: info.Picture,
	}, nil
}
