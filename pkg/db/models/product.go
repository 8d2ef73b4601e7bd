package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harlandtools/commerce-backend/pkg/enums"
)

// Product is the catalog row a pricing snapshot is built from.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductCode string            `gorm:"column:product_code;not null;uniqueIndex" json:"product_code"`
	Description string            `gorm:"column:description;not null" json:"description"`
	BasePrice   decimal.Decimal   `gorm:"column:base_price;type:numeric(12,2);not null" json:"base_price"`
	Category    string            `gorm:"column:category;not null" json:"category"`
	ProductType enums.ProductType `gorm:"column:product_type;not null;default:other" json:"product_type"`
	PricingTier *string           `gorm:"column:pricing_tier" json:"pricing_tier,omitempty"`
	Currency    enums.Currency    `gorm:"column:currency;not null;default:GBP" json:"currency"`
	SalesPrice  decimal.Decimal   `gorm:"column:sales_price;type:numeric(12,2);not null;default:0" json:"sales_price"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
