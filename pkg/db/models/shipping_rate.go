package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingRate is the flat delivery rate for one destination country.
// MinOrderValue is advisory metadata for presentation layers; the
// calculator does not enforce it.
type ShippingRate struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CountryCode           string           `gorm:"column:country_code;not null;uniqueIndex" json:"country_code"`
	Rate                  decimal.Decimal  `gorm:"column:rate;type:numeric(12,2);not null" json:"rate"`
	FreeShippingThreshold *decimal.Decimal `gorm:"column:free_shipping_threshold;type:numeric(12,2)" json:"free_shipping_threshold,omitempty"`
	MinOrderValue         *decimal.Decimal `gorm:"column:min_order_value;type:numeric(12,2)" json:"min_order_value,omitempty"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (s *ShippingRate) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
