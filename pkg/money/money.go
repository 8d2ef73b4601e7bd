package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value rendered to JSON as a fixed-point string with
// two decimal places, e.g. "90.00". All monetary fields in API payloads use
// this type so every amount shares one representation.
type Amount struct {
	decimal.Decimal
}

// FromDecimal wraps a decimal for serialization.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MustParse parses a decimal literal and panics on malformed input. Intended
// for constants and tests.
func MustParse(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(fmt.Sprintf("money: parse %q: %v", value, err))
	}
	return d
}

// MarshalJSON renders the amount as a quoted fixed-point string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both quoted fixed-point strings and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

var hundred = decimal.NewFromInt(100)

// PercentOff applies a percentage discount to price and rounds half-up to
// two decimal places. A zero pct returns the price unchanged.
func PercentOff(price, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return price
	}
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return price.Mul(factor).Round(2)
}

// PercentOf reports value as a percentage of base. Base must be positive.
func PercentOf(value, base decimal.Decimal) (decimal.Decimal, error) {
	if base.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("money: percentage base must be positive, got %s", base)
	}
	return value.Div(base).Mul(hundred), nil
}

// Round2 rounds half-up to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
