package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DistributorPrice is a distributor's quoted resale price for one product.
// The enforced columns are written by the nightly floor-price batch.
type DistributorPrice struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DistributorID   uuid.UUID        `gorm:"column:distributor_id;type:uuid;not null;index" json:"distributor_id"`
	ProductCode     string           `gorm:"column:product_code;not null;index" json:"product_code"`
	QuotedPrice     decimal.Decimal  `gorm:"column:quoted_price;type:numeric(12,2);not null" json:"quoted_price"`
	EnforcedPrice   *decimal.Decimal `gorm:"column:enforced_price;type:numeric(12,2)" json:"enforced_price,omitempty"`
	PricePct        *string          `gorm:"column:price_pct" json:"price_pct,omitempty"`
	PriceDifference *decimal.Decimal `gorm:"column:price_difference;type:numeric(12,2)" json:"price_difference,omitempty"`
	EnforcedAt      *time.Time       `gorm:"column:enforced_at" json:"enforced_at,omitempty"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (d *DistributorPrice) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
