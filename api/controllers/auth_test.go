package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/api/middleware"
	"github.com/kejahlabs/kejah-backend/internal/auth"
	"github.com/kejahlabs/kejah-backend/internal/users"
	"github.com/kejahlabs/kejah-backend/pkg/config"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "kejah-test",
		ExpirationMinutes: 15,
	}
}

type testAuthService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error)
	googleFn   func(ctx context.Context, req auth.GoogleSignInRequest) (*auth.AuthResponse, error)
	refreshFn  func(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error)
	logoutFn   func(ctx context.Context, accessID string) error
}

func (s *testAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return &auth.AuthResponse{}, nil
}

func (s *testAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.AuthResponse{}, nil
}

func (s *testAuthService) GoogleSignIn(ctx context.Context, req auth.GoogleSignInRequest) (*auth.AuthResponse, error) {
	if s.googleFn != nil {
		return s.googleFn(ctx, req)
	}
	return &auth.AuthResponse{}, nil
}

func (s *testAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, req)
	}
	return &auth.RefreshResponse{}, nil
}

func (s *testAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

type testPhoneService struct {
	startFn   func(ctx context.Context, userID uuid.UUID) error
	confirmFn func(ctx context.Context, userID uuid.UUID, code string) error
}

func (s *testPhoneService) StartVerification(ctx context.Context, userID uuid.UUID) error {
	if s.startFn != nil {
		return s.startFn(ctx, userID)
	}
	return nil
}

func (s *testPhoneService) ConfirmVerification(ctx context.Context, userID uuid.UUID, code string) error {
	if s.confirmFn != nil {
		return s.confirmFn(ctx, userID, code)
	}
	return nil
}

func TestAuthRegisterSuccess(t *testing.T) {
	var gotReq auth.RegisterRequest
	svc := &testAuthService{
		registerFn: func(_ context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
			gotReq = req
			return &auth.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         &users.UserDTO{Email: req.Email},
			}, nil
		},
	}

	body := `{"email":"jane@example.com","password":"longenough","display_name":"Jane","role":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthRegister(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotReq.Role != "agent" {
		t.Fatalf("unexpected role %q", gotReq.Role)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	svc := &testAuthService{
		registerFn: func(context.Context, auth.RegisterRequest) (*auth.AuthResponse, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	body := `{"email":"jane@example.com","password":"short","display_name":"Jane","role":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthRegister(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestAuthLoginProviderMismatch(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(context.Context, auth.LoginRequest) (*auth.AuthResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeProviderMismatch, "account uses google sign-in")
		},
	}

	body := `{"email":"jane@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "google sign-in") {
		t.Fatalf("expected provider message, got %s", resp.Body.String())
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&testAuthService{}, testJWTConfig(), testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestPhoneStart(t *testing.T) {
	userID := uuid.New()
	called := false
	svc := &testPhoneService{
		startFn: func(_ context.Context, id uuid.UUID) error {
			called = true
			if id != userID {
				t.Fatalf("unexpected user %s", id)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/phone/start", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	PhoneStart(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected verification start")
	}
}

func TestPhoneConfirmPassesCode(t *testing.T) {
	userID := uuid.New()
	var gotCode string
	svc := &testPhoneService{
		confirmFn: func(_ context.Context, _ uuid.UUID, code string) error {
			gotCode = code
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/phone/confirm",
		strings.NewReader(`{"code":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	PhoneConfirm(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotCode != "123456" {
		t.Fatalf("unexpected code %q", gotCode)
	}
}
