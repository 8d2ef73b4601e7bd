package distributor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/pkg/money"
)

// DefaultFloorPct is the minimum distributor resale price as a percentage
// of the product's sales price.
var DefaultFloorPct = decimal.NewFromInt(60)

// FloorOutcome is the enforcement decision for one distributor price.
// PricePct is rendered with one decimal place ("60.0") for the export feed.
type FloorOutcome struct {
	EnforcedPrice   decimal.Decimal
	PricePct        string
	PriceDifference decimal.Decimal
	Adjusted        bool
}

// ApplyFloor raises a quoted resale price to the floor when it undercuts
// it. Prices at or above the floor pass through unchanged, with the actual
// percentage reported.
func ApplyFloor(quoted, salesPrice, floorPct decimal.Decimal) (FloorOutcome, error) {
	if floorPct.Sign() <= 0 {
		return FloorOutcome{}, fmt.Errorf("floor percentage must be positive, got %s", floorPct)
	}

	pct, err := money.PercentOf(quoted, salesPrice)
	if err != nil {
		return FloorOutcome{}, err
	}

	if pct.GreaterThanOrEqual(floorPct) {
		return FloorOutcome{
			EnforcedPrice:   quoted,
			PricePct:        pct.StringFixed(1),
			PriceDifference: decimal.Zero,
		}, nil
	}

	enforced := salesPrice.Mul(floorPct).Div(hundred).Round(2)
	return FloorOutcome{
		EnforcedPrice:   enforced,
		PricePct:        floorPct.StringFixed(1),
		PriceDifference: enforced.Sub(quoted),
		Adjusted:        true,
	}, nil
}

var hundred = decimal.NewFromInt(100)
