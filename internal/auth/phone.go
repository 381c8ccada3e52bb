package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

const otpDigits = 6

// SMSSender delivers the one-time code to the user's phone.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// PhoneService drives phone number verification via one-time codes.
type PhoneService interface {
	StartVerification(ctx context.Context, userID uuid.UUID) error
	ConfirmVerification(ctx context.Context, userID uuid.UUID, code string) error
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	OTPCodeKey(userID string) string
	OTPAttemptsKey(userID string) string
}

type phoneUserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	MarkPhoneVerified(ctx context.Context, id uuid.UUID) error
}

type phoneService struct {
	store otpStore
	users phoneUserRepo
	sms   SMSSender
	cfg   config.PhoneOTPConfig
}

// NewPhoneService wires the OTP verification flow.
func NewPhoneService(store otpStore, users phoneUserRepo, sms SMSSender, cfg config.PhoneOTPConfig) (PhoneService, error) {
	if store == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if sms == nil {
		return nil, fmt.Errorf("sms sender is required")
	}
	return &phoneService{store: store, users: users, sms: sms, cfg: cfg}, nil
}

func (s *phoneService) StartVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Phone == nil || *user.Phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a phone number must be set before verification")
	}
	if user.PhoneVerified {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone is already verified")
	}

	code, err := generateOTPCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp code")
	}

	if err := s.store.Set(ctx, s.store.OTPCodeKey(userID.String()), code, s.cfg.CodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store otp code")
	}
	// A fresh code resets the attempt counter.
	if err := s.store.Del(ctx, s.store.OTPAttemptsKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset otp attempts")
	}

	message := fmt.Sprintf("Your Kejah verification code is %s", code)
	if err := s.sms.SendSMS(ctx, *user.Phone, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send otp sms")
	}
	return nil
}

func (s *phoneService) ConfirmVerification(ctx context.Context, userID uuid.UUID, code string) error {
	if len(code) != otpDigits {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification code must be 6 digits")
	}

	attempts, err := s.store.IncrWithTTL(ctx, s.store.OTPAttemptsKey(userID.String()), s.cfg.CodeTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count otp attempts")
	}
	if s.cfg.MaxAttempts > 0 && attempts > int64(s.cfg.MaxAttempts) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many verification attempts")
	}

	stored, err := s.store.Get(ctx, s.store.OTPCodeKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification code expired or was never requested")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load otp code")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "incorrect verification code")
	}

	if err := s.users.MarkPhoneVerified(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark phone verified")
	}

	return s.store.Del(ctx,
		s.store.OTPCodeKey(userID.String()),
		s.store.OTPAttemptsKey(userID.String()),
	)
}

func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
