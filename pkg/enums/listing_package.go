package enums

import "fmt"

// ListingPackage is the paid publication tier selected at listing creation.
type ListingPackage string

const (
	ListingPackageStandard ListingPackage = "standard"
	ListingPackagePremium  ListingPackage = "premium"
)

var validListingPackages = []ListingPackage{
	ListingPackageStandard,
	ListingPackagePremium,
}

// String returns the literal string for the package.
func (l ListingPackage) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingPackage.
func (l ListingPackage) IsValid() bool {
	for _, candidate := range validListingPackages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingPackage converts raw input into a ListingPackage.
func ParseListingPackage(value string) (ListingPackage, error) {
	for _, candidate := range validListingPackages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing package %q", value)
}
