package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderQuote is the persisted snapshot of one priced cart. The pricing
// engine never writes these itself; the checkout surface saves them so an
// order can reference the totals it was quoted.
type OrderQuote struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DestinationCountry string          `gorm:"column:destination_country;not null" json:"destination_country"`
	Subtotal           decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Shipping           decimal.Decimal `gorm:"column:shipping;type:numeric(12,2);not null" json:"shipping"`
	VATAmount          decimal.Decimal `gorm:"column:vat_amount;type:numeric(12,2);not null" json:"vat_amount"`
	VATRate            decimal.Decimal `gorm:"column:vat_rate;type:numeric(5,4);not null" json:"vat_rate"`
	VATExemptReason    *string         `gorm:"column:vat_exempt_reason" json:"vat_exempt_reason,omitempty"`
	Total              decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	TotalSavings       decimal.Decimal `gorm:"column:total_savings;type:numeric(12,2);not null" json:"total_savings"`
	LineCount          int             `gorm:"column:line_count;not null" json:"line_count"`
	ValidationErrors   pq.StringArray  `gorm:"column:validation_errors;type:text[]" json:"validation_errors"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the row identity client-side so the model works on
// both postgres and the sqlite test driver.
func (q *OrderQuote) BeforeCreate(_ *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
