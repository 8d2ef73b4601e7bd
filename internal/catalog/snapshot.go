package catalog

import (
	"strings"

	"github.com/harlandtools/commerce-backend/internal/shipping"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
)

// BreakKey addresses the breakpoint list of one consumable tier set.
type BreakKey struct {
	Category    string
	PricingTier string
}

// Snapshot is an immutable view of the reference data one pricing request
// runs against. It is built once per load, validated up front, and shared
// across concurrent requests without synchronization.
type Snapshot struct {
	products map[string]models.Product
	ladder   Ladder
	breaks   map[BreakKey][]models.CategoryPriceBreak
	shipping *shipping.Calculator
}

// BuildSnapshot indexes products by code, validates the tool ladder, and
// groups category breakpoints. Inactive products are excluded so a cart
// referencing one skips the line the same way an unknown code does.
func BuildSnapshot(
	products []models.Product,
	ladderRows []models.ToolDiscountTier,
	breakRows []models.CategoryPriceBreak,
	shippingRates []models.ShippingRate,
) (*Snapshot, error) {
	calc, err := shipping.NewCalculator(shippingRates)
	if err != nil {
		return nil, err
	}

	indexed := make(map[string]models.Product, len(products))
	for _, product := range products {
		if !product.IsActive {
			continue
		}
		indexed[normalizeCode(product.ProductCode)] = product
	}

	grouped := make(map[BreakKey][]models.CategoryPriceBreak)
	for _, row := range breakRows {
		key := BreakKey{Category: row.Category, PricingTier: row.PricingTier}
		grouped[key] = append(grouped[key], row)
	}

	return &Snapshot{
		products: indexed,
		ladder:   NewLadder(ladderRows),
		breaks:   grouped,
		shipping: calc,
	}, nil
}

// Product looks up a catalog entry by product code.
func (s *Snapshot) Product(code string) (models.Product, bool) {
	product, ok := s.products[normalizeCode(code)]
	return product, ok
}

// ProductCount reports how many active products the snapshot carries.
func (s *Snapshot) ProductCount() int {
	return len(s.products)
}

// Ladder returns the validated tool discount ladder.
func (s *Snapshot) Ladder() Ladder {
	return s.ladder
}

// Breaks returns the breakpoints for a consumable tier set.
func (s *Snapshot) Breaks(category, pricingTier string) []models.CategoryPriceBreak {
	return s.breaks[BreakKey{Category: category, PricingTier: pricingTier}]
}

// Shipping returns the calculator built over the snapshot's rate table.
func (s *Snapshot) Shipping() *shipping.Calculator {
	return s.shipping
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
