package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ToolLadderSentinelMaxQty marks an open-ended "and above" ladder row.
const ToolLadderSentinelMaxQty = 999

// ToolDiscountTier is one row of the tool quantity discount ladder. Active
// rows must be non-overlapping and jointly cover every quantity the shop
// serves; MaxQty 999 means "and above".
type ToolDiscountTier struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MinQty      int             `gorm:"column:min_qty;not null" json:"min_qty"`
	MaxQty      int             `gorm:"column:max_qty;not null" json:"max_qty"`
	DiscountPct decimal.Decimal `gorm:"column:discount_pct;type:numeric(5,2);not null" json:"discount_pct"`
	Active      bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Contains reports whether the row's quantity range covers qty.
func (t ToolDiscountTier) Contains(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	if t.MaxQty >= ToolLadderSentinelMaxQty {
		return true
	}
	return qty <= t.MaxQty
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (t *ToolDiscountTier) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
