package quotes

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
)

// Repository persists priced quotes so downstream orders can reference the
// totals the customer was shown.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to a gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save records one priced cart and returns the stored row.
func (r *Repository) Save(ctx context.Context, result *pricing.Result, destination string) (*models.OrderQuote, error) {
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing result required")
	}

	quote := &models.OrderQuote{
		DestinationCountry: tax.Normalize(destination),
		Subtotal:           result.Subtotal.Decimal,
		Shipping:           result.Shipping.Decimal,
		VATAmount:          result.VATAmount.Decimal,
		VATRate:            result.VATRate,
		VATExemptReason:    result.VATExemptReason,
		Total:              result.Total.Decimal,
		TotalSavings:       result.TotalSavings.Decimal,
		LineCount:          len(result.LineItems),
		ValidationErrors:   pq.StringArray(result.ValidationErrors),
	}
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order quote")
	}
	return quote, nil
}

// Get fetches one stored quote by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.OrderQuote, error) {
	var quote models.OrderQuote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order quote")
	}
	return &quote, nil
}
