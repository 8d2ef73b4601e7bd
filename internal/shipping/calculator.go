package shipping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
)

// Calculator resolves a delivery cost from destination country and order
// subtotal. Rates are indexed once at construction and reused across
// requests.
type Calculator struct {
	rates map[string]models.ShippingRate
}

// NewCalculator indexes the supplied rate table by country code. Duplicate
// country rows are rejected so a stale import cannot silently shadow a
// rate.
func NewCalculator(rates []models.ShippingRate) (*Calculator, error) {
	indexed := make(map[string]models.ShippingRate, len(rates))
	for _, rate := range rates {
		code := normalizeCountry(rate.CountryCode)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "shipping rate with empty country code")
		}
		if _, exists := indexed[code]; exists {
			return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "duplicate shipping rate for country "+code)
		}
		normalized := rate
		normalized.CountryCode = code
		indexed[code] = normalized
	}
	return &Calculator{rates: indexed}, nil
}

// Cost returns the shipping amount for the destination. Free shipping
// applies when the subtotal meets the configured threshold. A destination
// with no rate row is an explicit error, never a silent zero.
func (c *Calculator) Cost(destinationCountry string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	code := normalizeCountry(destinationCountry)
	rate, ok := c.rates[code]
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "no shipping rate configured for destination "+code)
	}
	if rate.FreeShippingThreshold != nil && subtotal.GreaterThanOrEqual(*rate.FreeShippingThreshold) {
		return decimal.Zero, nil
	}
	return rate.Rate, nil
}

// Rate exposes the raw rate row, including the advisory min_order_value,
// for presentation layers.
func (c *Calculator) Rate(destinationCountry string) (models.ShippingRate, bool) {
	rate, ok := c.rates[normalizeCountry(destinationCountry)]
	return rate, ok
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
