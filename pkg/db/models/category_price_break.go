package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryPriceBreak is a quantity breakpoint of a consumable pricing tier.
// Exactly one of DiscountPct or UnitPrice must be set; rows violating that
// surface as validation errors at pricing time, never as dropped lines.
type CategoryPriceBreak struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Category    string           `gorm:"column:category;not null;index:idx_category_tier" json:"category"`
	PricingTier string           `gorm:"column:pricing_tier;not null;index:idx_category_tier" json:"pricing_tier"`
	MinQty      int              `gorm:"column:min_qty;not null" json:"min_qty"`
	DiscountPct *decimal.Decimal `gorm:"column:discount_pct;type:numeric(5,2)" json:"discount_pct,omitempty"`
	UnitPrice   *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)" json:"unit_price,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (c *CategoryPriceBreak) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
