package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/pkg/enums"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

// PricedLine is one cart entry after discounting, before aggregation.
type PricedLine struct {
	ProductCode     string         `json:"product_code"`
	Description     string         `json:"description"`
	Quantity        int            `json:"quantity"`
	BasePrice       money.Amount   `json:"base_price"`
	UnitPrice       money.Amount   `json:"unit_price"`
	LineTotal       money.Amount   `json:"line_total"`
	DiscountApplied *string        `json:"discount_applied"`
	Currency        enums.Currency `json:"currency"`
}

// Result is the full priced cart. It is computed fresh per request and
// never persisted by the engine itself.
type Result struct {
	LineItems        []PricedLine    `json:"line_items"`
	Subtotal         money.Amount    `json:"subtotal"`
	Shipping         money.Amount    `json:"shipping"`
	VATAmount        money.Amount    `json:"vat_amount"`
	VATRate          decimal.Decimal `json:"vat_rate"`
	VATExemptReason  *string         `json:"vat_exempt_reason,omitempty"`
	Total            money.Amount    `json:"total"`
	TotalSavings     money.Amount    `json:"total_savings"`
	ValidationErrors []string        `json:"validation_errors"`
}

func zeroResult() *Result {
	return &Result{
		LineItems:        []PricedLine{},
		Subtotal:         money.FromDecimal(decimal.Zero),
		Shipping:         money.FromDecimal(decimal.Zero),
		VATAmount:        money.FromDecimal(decimal.Zero),
		VATRate:          decimal.Zero,
		Total:            money.FromDecimal(decimal.Zero),
		TotalSavings:     money.FromDecimal(decimal.Zero),
		ValidationErrors: []string{},
	}
}
