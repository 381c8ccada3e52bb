package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

type memoryOTPStore struct {
	values   map[string]string
	counters map[string]int64
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{values: map[string]string{}, counters: map[string]int64{}}
}

func (m *memoryOTPStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryOTPStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (m *memoryOTPStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
		delete(m.counters, key)
	}
	return nil
}

func (m *memoryOTPStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryOTPStore) OTPCodeKey(userID string) string     { return "otp:code:" + userID }
func (m *memoryOTPStore) OTPAttemptsKey(userID string) string { return "otp:attempts:" + userID }

type phoneRepoStub struct {
	user     *models.User
	verified bool
}

func (p *phoneRepoStub) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if p.user == nil || p.user.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return p.user, nil
}

func (p *phoneRepoStub) MarkPhoneVerified(_ context.Context, _ uuid.UUID) error {
	p.verified = true
	return nil
}

type smsRecorder struct {
	phone   string
	message string
}

func (s *smsRecorder) SendSMS(_ context.Context, phone, message string) error {
	s.phone = phone
	s.message = message
	return nil
}

func newPhoneFixture(t *testing.T) (PhoneService, *memoryOTPStore, *phoneRepoStub, *smsRecorder, uuid.UUID) {
	t.Helper()
	phone := "+254700000010"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "otp@example.com",
		Role:         enums.UserRoleAgent,
		AuthProvider: enums.AuthProviderEmail,
		Phone:        &phone,
		IsActive:     true,
	}
	store := newMemoryOTPStore()
	repo := &phoneRepoStub{user: user}
	sms := &smsRecorder{}
	svc, err := NewPhoneService(store, repo, sms, config.PhoneOTPConfig{
		CodeTTL:     5 * time.Minute,
		MaxAttempts: 3,
	})
	require.NoError(t, err)
	return svc, store, repo, sms, user.ID
}

func TestPhoneVerificationHappyPath(t *testing.T) {
	svc, store, repo, sms, userID := newPhoneFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.StartVerification(ctx, userID))
	require.Equal(t, "+254700000010", sms.phone)

	code := store.values[store.OTPCodeKey(userID.String())]
	require.Len(t, code, 6)
	require.Contains(t, sms.message, code)

	require.NoError(t, svc.ConfirmVerification(ctx, userID, code))
	require.True(t, repo.verified)

	// The code is single-use.
	err := svc.ConfirmVerification(ctx, userID, code)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPhoneVerificationWrongCode(t *testing.T) {
	svc, store, repo, _, userID := newPhoneFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.StartVerification(ctx, userID))
	code := store.values[store.OTPCodeKey(userID.String())]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err := svc.ConfirmVerification(ctx, userID, wrong)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.False(t, repo.verified)
}

func TestPhoneVerificationAttemptLimit(t *testing.T) {
	svc, store, _, _, userID := newPhoneFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.StartVerification(ctx, userID))
	code := store.values[store.OTPCodeKey(userID.String())]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < 3; i++ {
		_ = svc.ConfirmVerification(ctx, userID, wrong)
	}

	// Even the right code is rejected once the attempt budget is spent.
	err := svc.ConfirmVerification(ctx, userID, code)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeRateLimit, typed.Code())
}

func TestStartVerificationRequiresPhone(t *testing.T) {
	svc, _, repo, _, userID := newPhoneFixture(t)
	repo.user.Phone = nil

	err := svc.StartVerification(context.Background(), userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestStartVerificationRejectsAlreadyVerified(t *testing.T) {
	svc, _, repo, _, userID := newPhoneFixture(t)
	repo.user.PhoneVerified = true

	err := svc.StartVerification(context.Background(), userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestStartVerificationResetsAttempts(t *testing.T) {
	svc, store, repo, _, userID := newPhoneFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.StartVerification(ctx, userID))
	code := store.values[store.OTPCodeKey(userID.String())]
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < 3; i++ {
		_ = svc.ConfirmVerification(ctx, userID, wrong)
	}

	require.NoError(t, svc.StartVerification(ctx, userID))
	fresh := store.values[store.OTPCodeKey(userID.String())]
	require.NoError(t, svc.ConfirmVerification(ctx, userID, fresh))
	require.True(t, repo.verified)
}
