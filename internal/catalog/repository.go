package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
)

// Repository loads pricing reference data from the database.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to a gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveProducts returns every active catalog row.
func (r *Repository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// ListToolDiscountTiers returns the full ladder including inactive rows;
// the snapshot filters on Active so admin tooling can inspect the rest.
func (r *Repository) ListToolDiscountTiers(ctx context.Context) ([]models.ToolDiscountTier, error) {
	var rows []models.ToolDiscountTier
	if err := r.db.WithContext(ctx).Order("min_qty asc").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tool discount tiers")
	}
	return rows, nil
}

// ListCategoryPriceBreaks returns all consumable breakpoints.
func (r *Repository) ListCategoryPriceBreaks(ctx context.Context) ([]models.CategoryPriceBreak, error) {
	var rows []models.CategoryPriceBreak
	if err := r.db.WithContext(ctx).Order("category asc, pricing_tier asc, min_qty asc").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category price breaks")
	}
	return rows, nil
}

// ListShippingRates returns the shipping rate table.
func (r *Repository) ListShippingRates(ctx context.Context) ([]models.ShippingRate, error) {
	var rows []models.ShippingRate
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping rates")
	}
	return rows, nil
}

// LoadSnapshot reads all reference tables and assembles a validated
// snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	products, err := r.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := r.ListToolDiscountTiers(ctx)
	if err != nil {
		return nil, err
	}
	breaks, err := r.ListCategoryPriceBreaks(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := r.ListShippingRates(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(products, tiers, breaks, rates)
}
