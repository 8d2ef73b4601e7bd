package distributor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/metrics"
)

const floorJobName = "distributor-floor-price"

// Repository loads distributor prices and writes enforcement results.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to a gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPrices returns every distributor price row.
func (r *Repository) ListPrices(ctx context.Context) ([]models.DistributorPrice, error) {
	var rows []models.DistributorPrice
	if err := r.db.WithContext(ctx).Order("distributor_id asc, product_code asc").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list distributor prices")
	}
	return rows, nil
}

// SalesPrices returns product_code -> sales_price for every active product.
func (r *Repository) SalesPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Select("product_code", "sales_price").
		Where("is_active = ?", true).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales prices")
	}
	prices := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		prices[row.ProductCode] = row.SalesPrice
	}
	return prices, nil
}

// SaveEnforcement persists the enforcement columns of one price row.
func (r *Repository) SaveEnforcement(ctx context.Context, row *models.DistributorPrice) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("enforced_price", "price_pct", "price_difference", "enforced_at").
		Updates(row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save distributor price enforcement")
	}
	return nil
}

// Summary reports what one enforcement run did.
type Summary struct {
	Processed int
	Adjusted  int
	Skipped   int
}

// Service runs the floor-price batch over the distributor price table.
type Service struct {
	repo     *Repository
	floorPct decimal.Decimal
	logg     *logger.Logger
	jobs     *metrics.BatchJobMetrics
	now      func() time.Time
}

// NewService builds the batch service. A non-positive floorPct falls back
// to the default 60% floor. Metrics may be nil; recording becomes a no-op.
func NewService(repo *Repository, floorPct decimal.Decimal, logg *logger.Logger, jobs *metrics.BatchJobMetrics) *Service {
	if floorPct.Sign() <= 0 {
		floorPct = DefaultFloorPct
	}
	return &Service{repo: repo, floorPct: floorPct, logg: logg, jobs: jobs, now: time.Now}
}

// EnforceFloors walks every distributor price, raises rows below the floor,
// and stamps every processed row with the outcome. Per-row failures do not
// abort the batch: the walk completes and the failures come back combined,
// so one bad row cannot hide the rest of the run.
func (s *Service) EnforceFloors(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary, err := s.enforceFloors(ctx)
	s.jobs.ObserveDuration(floorJobName, time.Since(start))
	s.jobs.AddProcessed(floorJobName, summary.Processed)
	s.jobs.AddAdjusted(floorJobName, summary.Adjusted)
	if err != nil {
		s.jobs.IncFailure(floorJobName)
	} else {
		s.jobs.IncSuccess(floorJobName)
	}
	return summary, err
}

func (s *Service) enforceFloors(ctx context.Context) (Summary, error) {
	rows, err := s.repo.ListPrices(ctx)
	if err != nil {
		return Summary{}, err
	}
	salesPrices, err := s.repo.SalesPrices(ctx)
	if err != nil {
		return Summary{}, err
	}

	var (
		summary Summary
		errs    []error
	)
	for i := range rows {
		row := &rows[i]
		salesPrice, ok := salesPrices[row.ProductCode]
		if !ok {
			summary.Skipped++
			if s.logg != nil {
				s.logg.Warn(s.logg.WithProductCode(ctx, row.ProductCode), "distributor.sales_price_unusable")
			}
			continue
		}

		outcome, err := ApplyFloor(row.QuotedPrice, salesPrice, s.floorPct)
		if err != nil {
			summary.Skipped++
			errs = append(errs, err)
			if s.logg != nil {
				s.logg.Error(s.logg.WithProductCode(ctx, row.ProductCode), "distributor.floor_check_failed", err)
			}
			continue
		}

		enforcedAt := s.now().UTC()
		row.EnforcedPrice = &outcome.EnforcedPrice
		row.PricePct = &outcome.PricePct
		row.PriceDifference = &outcome.PriceDifference
		row.EnforcedAt = &enforcedAt

		if err := s.repo.SaveEnforcement(ctx, row); err != nil {
			summary.Skipped++
			errs = append(errs, err)
			if s.logg != nil {
				s.logg.Error(s.logg.WithProductCode(ctx, row.ProductCode), "distributor.enforcement_save_failed", err)
			}
			continue
		}
		summary.Processed++
		if outcome.Adjusted {
			summary.Adjusted++
			if s.logg != nil {
				logCtx := s.logg.WithFields(ctx, map[string]any{
					"product_code":   row.ProductCode,
					"distributor_id": row.DistributorID,
					"quoted_price":   row.QuotedPrice.StringFixed(2),
					"enforced_price": outcome.EnforcedPrice.StringFixed(2),
					"price_pct":      outcome.PricePct,
				})
				s.logg.Info(logCtx, "distributor.price_raised_to_floor")
			}
		}
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"processed": summary.Processed,
			"adjusted":  summary.Adjusted,
			"skipped":   summary.Skipped,
			"failures":  len(errs),
		})
		s.logg.Info(logCtx, "distributor.floor_enforcement_complete")
	}
	return summary, multierr.Combine(errs...)
}
