package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

// ConsumableLine is the per-line input handed to a tier strategy.
type ConsumableLine struct {
	ProductCode string
	Category    string
	PricingTier string
	Quantity    int
	BasePrice   decimal.Decimal
}

// TierQuote is a strategy's answer for one line. ValidationErrors flag
// inconsistent tier configuration; the line still prices at the returned
// unit price (a safe fallback), so carts never silently lose items.
type TierQuote struct {
	UnitPrice        decimal.Decimal
	DiscountApplied  string
	ValidationErrors []string
}

// TierStrategy computes a consumable unit price from the line's category,
// tier set, and quantity.
type TierStrategy interface {
	PriceLine(line ConsumableLine) TierQuote
}

// BreakpointStrategy is the default TierStrategy: quantity breakpoints per
// (category, pricing_tier) looked up from the catalog snapshot.
type BreakpointStrategy struct {
	snap *catalog.Snapshot
}

// NewBreakpointStrategy builds the default strategy over a snapshot.
func NewBreakpointStrategy(snap *catalog.Snapshot) *BreakpointStrategy {
	return &BreakpointStrategy{snap: snap}
}

// PriceLine resolves the breakpoint covering the line quantity. A product
// that declares no pricing tier passes through at base price. A declared
// tier with missing or malformed breakpoints is a validation error and the
// line falls back to base price. A quantity below the lowest breakpoint
// prices at base with no error: small orders are valid, just undiscounted.
func (s *BreakpointStrategy) PriceLine(line ConsumableLine) TierQuote {
	base := TierQuote{UnitPrice: line.BasePrice}
	if line.PricingTier == "" {
		return base
	}

	rows := s.snap.Breaks(line.Category, line.PricingTier)
	if len(rows) == 0 {
		base.ValidationErrors = append(base.ValidationErrors,
			fmt.Sprintf("%s: no price breaks configured for tier %q in category %q", line.ProductCode, line.PricingTier, line.Category))
		return base
	}

	if errs := validateBreaks(line, rows); len(errs) > 0 {
		base.ValidationErrors = errs
		return base
	}

	selected, ok := selectBreak(line.Quantity, rows)
	if !ok {
		// Quantity is below the lowest breakpoint: the order simply has
		// not earned a discount yet. Not a configuration problem.
		return base
	}

	switch {
	case selected.DiscountPct != nil:
		pct := *selected.DiscountPct
		if pct.IsZero() {
			return base
		}
		return TierQuote{
			UnitPrice:       money.PercentOff(line.BasePrice, pct),
			DiscountApplied: fmt.Sprintf("%d+ units - %s%% off", selected.MinQty, pct.String()),
		}
	case selected.UnitPrice != nil:
		unit := *selected.UnitPrice
		if unit.GreaterThanOrEqual(line.BasePrice) {
			return base
		}
		return TierQuote{
			UnitPrice:       unit,
			DiscountApplied: fmt.Sprintf("%d+ units @ %s each", selected.MinQty, unit.StringFixed(2)),
		}
	default:
		return base
	}
}

func validateBreaks(line ConsumableLine, rows []models.CategoryPriceBreak) []string {
	var errs []string
	flag := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("%s: ", line.ProductCode)+fmt.Sprintf(format, args...))
	}

	for _, row := range rows {
		switch {
		case row.DiscountPct == nil && row.UnitPrice == nil:
			flag("break at qty %d sets neither discount_pct nor unit_price", row.MinQty)
		case row.DiscountPct != nil && row.UnitPrice != nil:
			flag("break at qty %d sets both discount_pct and unit_price", row.MinQty)
		case row.DiscountPct != nil && (row.DiscountPct.IsNegative() || row.DiscountPct.GreaterThan(decimal.NewFromInt(100))):
			flag("break at qty %d has discount_pct %s outside 0-100", row.MinQty, row.DiscountPct)
		case row.UnitPrice != nil && row.UnitPrice.IsNegative():
			flag("break at qty %d has negative unit_price %s", row.MinQty, row.UnitPrice)
		case row.UnitPrice != nil && row.UnitPrice.GreaterThan(line.BasePrice):
			flag("break at qty %d prices above base (%s > %s)", row.MinQty, row.UnitPrice, line.BasePrice)
		}
	}
	return errs
}

// selectBreak picks the row with the highest min quantity not exceeding
// qty.
func selectBreak(qty int, rows []models.CategoryPriceBreak) (models.CategoryPriceBreak, bool) {
	sorted := make([]models.CategoryPriceBreak, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinQty < sorted[j].MinQty })

	var (
		selected models.CategoryPriceBreak
		found    bool
	)
	for _, row := range sorted {
		if row.MinQty <= qty {
			selected = row
			found = true
		}
	}
	return selected, found
}
