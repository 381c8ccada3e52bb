package listings

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	dbtypes "github.com/kejahlabs/kejah-backend/pkg/db/types"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:listings_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Listing{}, &models.Report{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	client := db.NewWithConn(conn, db.BackendSQLite)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func mustCreateTestAgent(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("agent_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		DisplayName:  "Listing Tester",
		Role:         enums.UserRoleAgent,
		AuthProvider: enums.AuthProviderEmail,
		PhotoURL:     "https://ui-avatars.com/api/?name=Listing+Tester",
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return user
}

type listingOverride func(*models.Listing)

func withFeatured() listingOverride {
	return func(l *models.Listing) { l.Featured = true }
}

func withCity(city string) listingOverride {
	return func(l *models.Listing) { l.Location.City = city }
}

func withType(lt enums.ListingType) listingOverride {
	return func(l *models.Listing) { l.Type = lt }
}

func withPrice(price int64) listingOverride {
	return func(l *models.Listing) { l.Price = decimal.NewFromInt(price) }
}

func withBedrooms(n int) listingOverride {
	return func(l *models.Listing) { l.Bedrooms = n }
}

func withCreatedAt(at time.Time) listingOverride {
	return func(l *models.Listing) { l.CreatedAt = at }
}

func mustCreateTestListing(t *testing.T, conn *gorm.DB, creatorID uuid.UUID, overrides ...listingOverride) *models.Listing {
	t.Helper()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("uuid v7: %v", err)
	}
	listing := &models.Listing{
		ID:          id,
		CreatorID:   creatorID,
		Title:       fmt.Sprintf("Listing %s", id),
		Description: "test listing",
		Price:       decimal.NewFromInt(50000),
		Type:        enums.ListingTypeRent,
		Bedrooms:    2,
		Bathrooms:   1,
		Amenities:   dbtypes.StringList{"parking"},
		Images:      dbtypes.StringList{},
		Location: models.Location{
			Address: "Test Road",
			City:    "Nairobi",
		},
		Status:        enums.ListingStatusActive,
		Package:       enums.ListingPackageStandard,
		AmountPaid:    decimal.NewFromInt(500),
		PaymentStatus: enums.PaymentStatusPaid,
		CreatedAt:     time.Now().UTC(),
	}
	for _, override := range overrides {
		override(listing)
	}
	if err := conn.Create(listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func uuidMustV7(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("generate uuid: %v", err)
	}
	return id
}
