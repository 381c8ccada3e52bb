package listings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	dbtypes "github.com/kejahlabs/kejah-backend/pkg/db/types"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
	"github.com/kejahlabs/kejah-backend/pkg/metrics"
)

// Service exposes the listing store operations.
type Service interface {
	List(ctx context.Context, filters Filters) ([]ListingDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	IncrementViews(ctx context.Context, id uuid.UUID)
	Create(ctx context.Context, creatorID uuid.UUID, input CreateListingInput) (*ListingDTO, error)
	Report(ctx context.Context, reporterID, listingID uuid.UUID, reason string) error
}

// PackageCharge is the outcome of charging a listing package fee.
type PackageCharge struct {
	Amount decimal.Decimal
	Status enums.PaymentStatus
}

// PackageCharger collects the listing publication fee before the listing
// is persisted.
type PackageCharger interface {
	ChargePackage(ctx context.Context, userID uuid.UUID, pkg enums.ListingPackage, idempotencyKey string) (*PackageCharge, error)
}

// PublisherGate decides whether a user may publish listings (agent role
// with a verified phone).
type PublisherGate interface {
	CanPublish(ctx context.Context, userID uuid.UUID) error
}

// Geocoder resolves an address to coordinates. Optional; a nil geocoder
// leaves caller-provided coordinates untouched.
type Geocoder interface {
	Geocode(ctx context.Context, address, city string) (lat, lng float64, err error)
}

// CreateListingInput holds the validated payload to create a listing.
type CreateListingInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Type        enums.ListingType
	Bedrooms    int
	Bathrooms   int
	Sqft        *int
	Amenities   []string
	Images      []string
	Location    LocationDTO
	Package     enums.ListingPackage
}

type service struct {
	client    *db.Client
	repo      *Repository
	charger   PackageCharger
	gate      PublisherGate
	geocoder  Geocoder
	publisher EventPublisher
	metrics   *metrics.Metrics
	logg      *logger.Logger
	cfg       config.ModerationConfig
}

// NewService wires the listing service with its dependencies. The charger,
// gate, geocoder, publisher, and metrics are optional and skipped when nil.
func NewService(
	client *db.Client,
	repo *Repository,
	charger PackageCharger,
	gate PublisherGate,
	geocoder Geocoder,
	publisher EventPublisher,
	m *metrics.Metrics,
	logg *logger.Logger,
	cfg config.ModerationConfig,
) Service {
	return &service{
		client:    client,
		repo:      repo,
		charger:   charger,
		gate:      gate,
		geocoder:  geocoder,
		publisher: publisher,
		metrics:   m,
		logg:      logg,
		cfg:       cfg,
	}
}

func (s *service) List(ctx context.Context, filters Filters) ([]ListingDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, db.WrapBackend(err, "listing listings")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapBackend(err, "loading listing")
	}
	return FromModel(listing), nil
}

// IncrementViews records a view without surfacing anything to the caller.
// Unknown IDs and storage failures alike end here.
func (s *service) IncrementViews(ctx context.Context, id uuid.UUID) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithListingID(ctx, id.String()), "view increment failed")
		}
		return
	}
	if s.metrics != nil {
		s.metrics.ListingViews.Inc()
	}
	if s.publisher != nil {
		event := ViewEvent{ListingID: id, OccurredAt: time.Now().UTC()}
		if err := s.publisher.PublishViewEvent(ctx, event); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithListingID(ctx, id.String()), "view event publish failed")
		}
	}
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, input CreateListingInput) (*ListingDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if s.gate != nil {
		if err := s.gate.CanPublish(ctx, creatorID); err != nil {
			return nil, err
		}
	}

	location := input.Location
	if s.geocoder != nil && location.Lat == 0 && location.Lng == 0 {
		if lat, lng, err := s.geocoder.Geocode(ctx, location.Address, location.City); err == nil {
			location.Lat = lat
			location.Lng = lng
		}
	}

	amount := decimal.Zero
	paymentStatus := enums.PaymentStatusUnpaid
	if s.charger != nil {
		charge, err := s.charger.ChargePackage(ctx, creatorID, input.Package, uuid.NewString())
		if err != nil {
			return nil, err
		}
		amount = charge.Amount
		paymentStatus = charge.Status
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating listing id")
	}

	listing := &models.Listing{
		ID:          id,
		CreatorID:   creatorID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Type:        input.Type,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Sqft:        input.Sqft,
		Amenities:   dbtypes.StringList(append([]string(nil), input.Amenities...)),
		Images:      dbtypes.StringList(append([]string(nil), input.Images...)),
		Location: models.Location{
			Lat:     location.Lat,
			Lng:     location.Lng,
			Address: location.Address,
			City:    location.City,
			State:   location.State,
			Zip:     location.Zip,
		},
		Status:        enums.ListingStatusActive,
		ReportCount:   0,
		Views:         0,
		Featured:      input.Package == enums.ListingPackagePremium,
		Package:       input.Package,
		AmountPaid:    amount,
		PaymentStatus: paymentStatus,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, listing); err != nil {
		return nil, db.WrapBackend(err, "inserting listing")
	}

	if s.metrics != nil {
		s.metrics.ListingsCreated.Inc()
	}

	return FromModel(listing), nil
}

// Report files a report and suspends the listing inside the same
// transaction once the configured threshold is reached. A reader can never
// observe the threshold count together with an active status.
func (s *service) Report(ctx context.Context, reporterID, listingID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "report reason is required")
	}

	threshold := s.cfg.SuspensionThreshold
	if threshold <= 0 {
		threshold = 3
	}

	var (
		suspended bool
		snapshot  *models.Listing
	)
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		found, err := txRepo.IncrementReportCount(ctx, listingID)
		if err != nil {
			return err
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}

		report := &models.Report{
			ID:         uuid.New(),
			ListingID:  listingID,
			ReporterID: reporterID,
			Reason:     reason,
			Status:     enums.ReportStatusPending,
		}
		if err := txRepo.CreateReport(ctx, report); err != nil {
			return err
		}

		suspended, err = txRepo.SuspendAtThreshold(ctx, listingID, threshold)
		if err != nil {
			return err
		}

		snapshot, err = txRepo.FindByID(ctx, listingID)
		return err
	})
	if err != nil {
		return db.WrapBackend(err, "reporting listing")
	}

	if s.metrics != nil {
		s.metrics.ReportsFiled.Inc()
		if suspended {
			s.metrics.ListingsSuspended.Inc()
		}
	}

	s.publishModeration(ctx, snapshot, suspended)
	return nil
}

func (s *service) publishModeration(ctx context.Context, listing *models.Listing, suspended bool) {
	if s.publisher == nil || listing == nil {
		return
	}

	events := []ListingEvent{{
		Type:        EventListingReported,
		ListingID:   listing.ID,
		CreatorID:   listing.CreatorID,
		Title:       listing.Title,
		ReportCount: listing.ReportCount,
		OccurredAt:  time.Now().UTC(),
	}}
	if suspended {
		events = append(events, ListingEvent{
			Type:        EventListingSuspended,
			ListingID:   listing.ID,
			CreatorID:   listing.CreatorID,
			Title:       listing.Title,
			ReportCount: listing.ReportCount,
			OccurredAt:  time.Now().UTC(),
		})
	}

	for _, event := range events {
		if err := s.publisher.PublishListingEvent(ctx, event); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithListingID(ctx, listing.ID.String()), "listing event publish failed")
		}
	}
}

func validateCreateInput(input CreateListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Bedrooms < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "bedrooms must not be negative")
	}
	if input.Bathrooms < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "bathrooms must not be negative")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown listing type")
	}
	if !input.Package.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown listing package")
	}
	if strings.TrimSpace(input.Location.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	return nil
}
