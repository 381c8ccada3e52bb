package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/square"
)

// PaymentGateway is the slice of the Square client the billing service uses.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
}

// Service collects listing package fees and records the resulting payments.
// It satisfies the charger dependency of the listings service.
type Service struct {
	repo    *Repository
	gateway PaymentGateway
	cfg     config.BillingConfig
}

// ServiceParams groups dependencies for the billing service. A nil gateway
// records fees as unpaid, which keeps demo mode working without Square
// credentials.
type ServiceParams struct {
	Repo    *Repository
	Gateway PaymentGateway
	Config  config.BillingConfig
}

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{
		repo:    params.Repo,
		gateway: params.Gateway,
		cfg:     params.Config,
	}, nil
}

// ChargePackage collects the fee for the requested package and records the
// outcome. The charge is attempted before the listing exists, so the payment
// row starts without a listing reference.
func (s *Service) ChargePackage(ctx context.Context, userID uuid.UUID, pkg enums.ListingPackage, idempotencyKey string) (*listings.PackageCharge, error) {
	fee, ok := s.cfg.PackageFee(pkg.String())
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown listing package")
	}

	status := enums.PaymentStatusUnpaid
	squarePaymentID := ""
	if s.gateway != nil {
		payment, err := s.gateway.CreatePayment(ctx, square.PaymentCreateParams{
			AmountCents:    fee.Mul(decimal.NewFromInt(100)).IntPart(),
			Currency:       s.cfg.Currency,
			SourceID:       "EXTERNAL",
			IdempotencyKey: idempotencyKey,
			Note:           fmt.Sprintf("kejah %s listing package", pkg),
			ReferenceID:    userID.String(),
		})
		if err != nil {
			if recordErr := s.recordPayment(ctx, userID, pkg, fee, "", enums.PaymentStatusFailed); recordErr != nil {
				return nil, db.WrapBackend(recordErr, "recording failed payment")
			}
			return nil, err
		}
		status = enums.PaymentStatusPaid
		if id := payment.GetID(); id != nil {
			squarePaymentID = *id
		}
	}

	if err := s.recordPayment(ctx, userID, pkg, fee, squarePaymentID, status); err != nil {
		return nil, db.WrapBackend(err, "recording payment")
	}

	return &listings.PackageCharge{Amount: fee, Status: status}, nil
}

// ListPayments returns the caller's payment history.
func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, db.WrapBackend(err, "listing payments")
	}
	return payments, nil
}

func (s *Service) recordPayment(ctx context.Context, userID uuid.UUID, pkg enums.ListingPackage, amount decimal.Decimal, squarePaymentID string, status enums.PaymentStatus) error {
	return s.repo.Insert(ctx, &models.Payment{
		ID:              uuid.New(),
		UserID:          userID,
		Package:         pkg,
		Amount:          amount,
		Currency:        s.cfg.Currency,
		SquarePaymentID: squarePaymentID,
		Status:          status,
	})
}
