package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/api/responses"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

// PaymentsService is the slice of the billing service the payments
// endpoint needs.
type PaymentsService interface {
	ListPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

type paymentDTO struct {
	ID        uuid.UUID            `json:"id"`
	ListingID *uuid.UUID           `json:"listing_id,omitempty"`
	Package   enums.ListingPackage `json:"package"`
	Amount    decimal.Decimal      `json:"amount"`
	Currency  string               `json:"currency"`
	Status    enums.PaymentStatus  `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// ListPayments returns the caller's package payment history.
func ListPayments(svc PaymentsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.ListPayments(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]paymentDTO, 0, len(payments))
		for _, p := range payments {
			items = append(items, paymentDTO{
				ID:        p.ID,
				ListingID: p.ListingID,
				Package:   p.Package,
				Amount:    p.Amount,
				Currency:  p.Currency,
				Status:    p.Status,
				CreatedAt: p.CreatedAt,
			})
		}
		responses.WriteSuccess(w, map[string]any{"payments": items})
	}
}
