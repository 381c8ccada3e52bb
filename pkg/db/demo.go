package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	dbtypes "github.com/kejahlabs/kejah-backend/pkg/db/types"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
)

func demoModels() []any {
	return []any{
		&models.User{},
		&models.Listing{},
		&models.Report{},
		&models.Feedback{},
		&models.ContactMessage{},
		&models.Media{},
		&models.Notification{},
		&models.Payment{},
	}
}

func (c *Client) migrateDemo() error {
	return c.conn.AutoMigrate(demoModels()...)
}

// Seed loads the demo dataset into whatever backend the client wraps.
// Used by the seed command against Postgres; demo mode runs it implicitly.
func (c *Client) Seed(ctx context.Context) error {
	return c.seedDemo(ctx)
}

// seedDemo loads the fixed demo dataset: three agents and a small set of
// listings spread across cities so every browse filter has matches.
func (c *Client) seedDemo(ctx context.Context) error {
	agents := []models.User{
		demoAgent("Sarah Wanjiku", "sarah@kejah.co.ke"),
		demoAgent("David Omondi", "david@kejah.co.ke"),
		demoAgent("Grace Muthoni", "grace@kejah.co.ke"),
	}
	for i := range agents {
		if err := c.conn.WithContext(ctx).Create(&agents[i]).Error; err != nil {
			return fmt.Errorf("seeding agent %s: %w", agents[i].Email, err)
		}
	}

	listings := []models.Listing{
		demoListing(agents[0].ID, "Modern 3BR Apartment in Kilimani", enums.ListingTypeRent, 85000, 3, 2, "Nairobi", "Kilimani", true),
		demoListing(agents[0].ID, "Spacious 4BR Villa with Garden", enums.ListingTypeSale, 24500000, 4, 3, "Nairobi", "Karen", true),
		demoListing(agents[1].ID, "Cozy 1BR Studio near CBD", enums.ListingTypeRent, 35000, 1, 1, "Nairobi", "Ngara", false),
		demoListing(agents[1].ID, "Beachfront 5BR Home", enums.ListingTypeSale, 38000000, 5, 4, "Mombasa", "Nyali", false),
		demoListing(agents[2].ID, "2BR Apartment with Lake View", enums.ListingTypeRent, 45000, 2, 2, "Kisumu", "Milimani", false),
		demoListing(agents[2].ID, "Family 3BR Bungalow", enums.ListingTypeSale, 12800000, 3, 2, "Nakuru", "Milimani", false),
	}
	for i := range listings {
		if err := c.conn.WithContext(ctx).Create(&listings[i]).Error; err != nil {
			return fmt.Errorf("seeding listing %q: %w", listings[i].Title, err)
		}
	}

	return nil
}

func demoAgent(name, email string) models.User {
	return models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "",
		DisplayName:  name,
		Role:         enums.UserRoleAgent,
		AuthProvider: enums.AuthProviderEmail,
		PhotoURL:     "https://ui-avatars.com/api/?name=" + name,
		IsActive:     true,
	}
}

func demoListing(creatorID uuid.UUID, title string, listingType enums.ListingType, price int64, beds, baths int, city, area string, featured bool) models.Listing {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	pkg := enums.ListingPackageStandard
	paid := decimal.NewFromInt(500)
	if featured {
		pkg = enums.ListingPackagePremium
		paid = decimal.NewFromInt(1000)
	}
	return models.Listing{
		ID:          id,
		CreatorID:   creatorID,
		Title:       title,
		Description: fmt.Sprintf("%s located in %s, %s.", title, area, city),
		Price:       decimal.NewFromInt(price),
		Type:        listingType,
		Bedrooms:    beds,
		Bathrooms:   baths,
		Amenities:   dbtypes.StringList{"parking", "water", "security"},
		Images:      dbtypes.StringList{},
		Location: models.Location{
			Address: area,
			City:    city,
		},
		Status:        enums.ListingStatusActive,
		Featured:      featured,
		Package:       pkg,
		AmountPaid:    paid,
		PaymentStatus: enums.PaymentStatusPaid,
	}
}
