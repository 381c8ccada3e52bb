package listings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

// Repository wires together listing and report persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Insert persists a fully-populated listing.
func (r *Repository) Insert(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID loads the listing regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

// List returns active listings matching the filters, featured first and
// newest first within each band. The trailing id sort makes ties
// deterministic because listing IDs are UUIDv7 and follow insertion order.
func (r *Repository) List(ctx context.Context, filters Filters) ([]models.Listing, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("status <> ?", enums.ListingStatusSuspended)

	if filters.Type != nil {
		qb = qb.Where("type = ?", *filters.Type)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price <= ?", *filters.MaxPrice)
	}
	if city := strings.TrimSpace(filters.City); city != "" {
		qb = qb.Where("LOWER(location_city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if filters.Bedrooms != nil {
		if filters.Bedrooms.FourPlus {
			qb = qb.Where("bedrooms >= ?", 4)
		} else {
			qb = qb.Where("bedrooms = ?", filters.Bedrooms.Exact)
		}
	} else if filters.MinBeds != nil {
		qb = qb.Where("bedrooms >= ?", *filters.MinBeds)
	}

	var out []models.Listing
	if err := qb.
		Order("featured DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementViews bumps the view counter. Unknown IDs are a silent no-op.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// CreateReport inserts a report row.
func (r *Repository) CreateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// IncrementReportCount atomically bumps the report counter and reports
// whether the listing existed.
func (r *Repository) IncrementReportCount(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SuspendAtThreshold flips the listing to suspended once its report count
// has reached the threshold. It reports whether a transition happened.
func (r *Repository) SuspendAtThreshold(ctx context.Context, id uuid.UUID, threshold int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ? AND report_count >= ? AND status = ?", id, threshold, enums.ListingStatusActive).
		UpdateColumn("status", enums.ListingStatusSuspended)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
