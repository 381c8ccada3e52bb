package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/api/middleware"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

type testPaymentsService struct {
	listFn func(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

func (s *testPaymentsService) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return nil, nil
}

func TestListPayments(t *testing.T) {
	userID := uuid.New()
	listingID := uuid.New()
	svc := &testPaymentsService{
		listFn: func(_ context.Context, uid uuid.UUID) ([]models.Payment, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return []models.Payment{{
				ID:              uuid.New(),
				UserID:          uid,
				ListingID:       &listingID,
				Package:         enums.ListingPackagePremium,
				Amount:          decimal.RequireFromString("2500.00"),
				Currency:        "KES",
				SquarePaymentID: "sq-123",
				Status:          enums.PaymentStatusPaid,
			}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	ListPayments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Payments []map[string]any `json:"payments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Payments) != 1 {
		t.Fatalf("unexpected payments %+v", envelope.Data.Payments)
	}
	payment := envelope.Data.Payments[0]
	if payment["package"] != "premium" {
		t.Fatalf("unexpected package %v", payment["package"])
	}
	if payment["currency"] != "KES" {
		t.Fatalf("unexpected currency %v", payment["currency"])
	}
	if _, exposed := payment["square_payment_id"]; exposed {
		t.Fatal("gateway reference must not leak to clients")
	}
}

func TestListPaymentsRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	resp := httptest.NewRecorder()
	ListPayments(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
