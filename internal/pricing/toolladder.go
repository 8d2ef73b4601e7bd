package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
)

// toolDiscount is the single ladder outcome applied uniformly to every
// tool line in the cart.
type toolDiscount struct {
	pct   decimal.Decimal
	label string
}

// toolLadderLabel renders the customer-facing ladder description:
// "5 tools - 12% off" for a singular tier, "10+ tools - 20% off" for the
// open-ended sentinel, "1-4 tools - 10% off" otherwise.
func toolLadderLabel(tier models.ToolDiscountTier) string {
	pct := tier.DiscountPct.String()
	switch {
	case tier.MinQty == tier.MaxQty:
		noun := "tools"
		if tier.MinQty == 1 {
			noun = "tool"
		}
		return fmt.Sprintf("%d %s - %s%% off", tier.MinQty, noun, pct)
	case tier.MaxQty >= models.ToolLadderSentinelMaxQty:
		return fmt.Sprintf("%d+ tools - %s%% off", tier.MinQty, pct)
	default:
		return fmt.Sprintf("%d-%d tools - %s%% off", tier.MinQty, tier.MaxQty, pct)
	}
}
