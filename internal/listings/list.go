package listings

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

// BedroomsFourPlus is the sentinel accepted by the bedrooms filter meaning
// "four or more bedrooms".
const BedroomsFourPlus = "4+"

// BedroomsFilter is either an exact bedroom count or the open-ended 4+ bucket.
type BedroomsFilter struct {
	Exact    int
	FourPlus bool
}

// ParseBedrooms converts the raw query value into a BedroomsFilter.
func ParseBedrooms(value string) (BedroomsFilter, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == BedroomsFourPlus {
		return BedroomsFilter{FourPlus: true}, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return BedroomsFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "bedrooms must be a non-negative integer or 4+")
	}
	return BedroomsFilter{Exact: n}, nil
}

// Filters describe the supported filter knobs for the browse endpoint.
// All present filters combine with AND; suspended listings are always
// excluded regardless of filters. When Bedrooms is present MinBeds is
// ignored entirely.
type Filters struct {
	Type     *enums.ListingType
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	City     string
	Bedrooms *BedroomsFilter
	MinBeds  *int
}
