package listings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

// LocationDTO is the transport shape for a listing location.
type LocationDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state,omitempty"`
	Zip     string  `json:"zip,omitempty"`
}

// ListingDTO is the transport shape for a listing. CreatedAt is exposed as
// epoch milliseconds, matching what clients sort and render with.
type ListingDTO struct {
	ID            uuid.UUID            `json:"id"`
	CreatorID     uuid.UUID            `json:"creator_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Price         decimal.Decimal      `json:"price"`
	Type          enums.ListingType    `json:"type"`
	Bedrooms      int                  `json:"bedrooms"`
	Bathrooms     int                  `json:"bathrooms"`
	Sqft          *int                 `json:"sqft,omitempty"`
	Amenities     []string             `json:"amenities"`
	Images        []string             `json:"images"`
	Location      LocationDTO          `json:"location"`
	Status        enums.ListingStatus  `json:"status"`
	ReportCount   int                  `json:"report_count"`
	Views         int64                `json:"views"`
	Featured      bool                 `json:"featured"`
	Package       enums.ListingPackage `json:"package"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	PaymentStatus enums.PaymentStatus  `json:"payment_status"`
	CreatedAt     int64                `json:"created_at"`
}

// FromModel converts the persisted listing into its transport shape.
func FromModel(l *models.Listing) *ListingDTO {
	if l == nil {
		return nil
	}

	return &ListingDTO{
		ID:          l.ID,
		CreatorID:   l.CreatorID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Type:        l.Type,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Sqft:        l.Sqft,
		Amenities:   append([]string(nil), []string(l.Amenities)...),
		Images:      append([]string(nil), []string(l.Images)...),
		Location: LocationDTO{
			Lat:     l.Location.Lat,
			Lng:     l.Location.Lng,
			Address: l.Location.Address,
			City:    l.Location.City,
			State:   l.Location.State,
			Zip:     l.Location.Zip,
		},
		Status:        l.Status,
		ReportCount:   l.ReportCount,
		Views:         l.Views,
		Featured:      l.Featured,
		Package:       l.Package,
		AmountPaid:    l.AmountPaid,
		PaymentStatus: l.PaymentStatus,
		CreatedAt:     l.CreatedAt.UnixMilli(),
	}
}

// FromModels maps a slice of listings preserving order.
func FromModels(in []models.Listing) []ListingDTO {
	out := make([]ListingDTO, 0, len(in))
	for i := range in {
		out = append(out, *FromModel(&in[i]))
	}
	return out
}
