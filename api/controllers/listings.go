package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/api/responses"
	"github.com/kejahlabs/kejah-backend/api/validators"
	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

// browseQueryParams is the full set of filters the browse endpoint accepts.
var browseQueryParams = []string{"type", "min_price", "max_price", "city", "bedrooms", "min_beds"}

// ListListings serves the public browse endpoint. Filters combine with AND
// and suspended listings never appear.
func ListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		if err := validators.RequireKnownQueryParams(r, browseQueryParams...); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseBrowseFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"listings": items})
	}
}

func parseBrowseFilters(r *http.Request) (listings.Filters, error) {
	var filters listings.Filters
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		listingType, err := enums.ParseListingType(raw)
		if err != nil {
			return listings.Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "type must be sale or rent")
		}
		filters.Type = &listingType
	}

	minPrice, err := parsePriceParam(query.Get("min_price"), "min_price")
	if err != nil {
		return listings.Filters{}, err
	}
	filters.MinPrice = minPrice

	maxPrice, err := parsePriceParam(query.Get("max_price"), "max_price")
	if err != nil {
		return listings.Filters{}, err
	}
	filters.MaxPrice = maxPrice

	filters.City = strings.TrimSpace(query.Get("city"))

	if raw := strings.TrimSpace(query.Get("bedrooms")); raw != "" {
		bedrooms, err := listings.ParseBedrooms(raw)
		if err != nil {
			return listings.Filters{}, err
		}
		filters.Bedrooms = &bedrooms
	}

	if raw := strings.TrimSpace(query.Get("min_beds")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return listings.Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "min_beds must be a non-negative integer")
		}
		filters.MinBeds = &value
	}

	return filters, nil
}

func parsePriceParam(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price filter must be a non-negative number").
			WithDetails(map[string]any{"field": field})
	}
	return &value, nil
}

// GetListing returns a single listing and counts the view. The view
// increment is fire-and-forget so a broken counter never blocks reads.
func GetListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		listingID, err := uuid.Parse(chi.URLParam(r, "listingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id"))
			return
		}

		listing, err := svc.GetByID(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.IncrementViews(r.Context(), listingID)
		responses.WriteSuccess(w, listing)
	}
}

type createListingRequest struct {
	Title       string               `json:"title" validate:"required,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	Price       decimal.Decimal      `json:"price" validate:"required"`
	Type        string               `json:"type" validate:"required,oneof=sale rent"`
	Bedrooms    int                  `json:"bedrooms" validate:"min=0"`
	Bathrooms   int                  `json:"bathrooms" validate:"min=0"`
	Sqft        *int                 `json:"sqft,omitempty" validate:"omitempty,min=1"`
	Amenities   []string             `json:"amenities" validate:"max=50"`
	Images      []string             `json:"images" validate:"max=20"`
	Location    listings.LocationDTO `json:"location"`
	Package     string               `json:"package" validate:"required,oneof=standard premium"`
}

func (req createListingRequest) toInput() (listings.CreateListingInput, error) {
	listingType, err := enums.ParseListingType(req.Type)
	if err != nil {
		return listings.CreateListingInput{}, pkgerrors.New(pkgerrors.CodeValidation, "type must be sale or rent")
	}
	pkg, err := enums.ParseListingPackage(req.Package)
	if err != nil {
		return listings.CreateListingInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid package")
	}
	return listings.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Type:        listingType,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Sqft:        req.Sqft,
		Amenities:   req.Amenities,
		Images:      req.Images,
		Location:    req.Location,
		Package:     pkg,
	}, nil
}

// CreateListing publishes a new listing after the package fee clears.
func CreateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		creatorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), creatorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

type reportListingRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ReportListing files a report against a listing. Every report counts
// toward the suspension threshold, including repeats from the same user.
func ReportListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		reporterID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := uuid.Parse(chi.URLParam(r, "listingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id"))
			return
		}

		var body reportListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Report(r.Context(), reporterID, listingID, body.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "reported"})
	}
}
