package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
)

// Context carries the destination facts a VAT decision depends on. VAT
// number validation happens upstream; this package only consumes the
// outcome.
type Context struct {
	DestinationCountry string
	HasValidVATNumber  bool
}

// Assessment is the resolved VAT treatment for one taxable amount.
type Assessment struct {
	Rate         decimal.Decimal
	Amount       decimal.Decimal
	ExemptReason string
	RuleName     string
}

// Rule is one entry of the ordered VAT precedence chain. The first rule
// whose Applies returns true wins.
type Rule struct {
	Name         string
	Applies      func(Context) bool
	Rate         decimal.Decimal
	ExemptReason string
}

// Resolver evaluates an ordered rule chain against a destination.
type Resolver struct {
	rules []Rule
}

// ExemptReasonReverseCharge and ExemptReasonExport are the two exemption
// labels exposed on quotes.
const (
	ExemptReasonReverseCharge = "EU Reverse Charge"
	ExemptReasonExport        = "Export"
)

var domesticCodes = map[string]struct{}{
	// Both literal UK codes are accepted on the wire.
	"GB": {},
	"UK": {},
}

// euMembers is the fixed 27-member EU country set, maintained as static
// configuration rather than derived.
var euMembers = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {},
	"DK": {}, "EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {},
	"HU": {}, "IE": {}, "IT": {}, "LV": {}, "LT": {}, "LU": {},
	"MT": {}, "NL": {}, "PL": {}, "PT": {}, "RO": {}, "SK": {},
	"SI": {}, "ES": {}, "SE": {},
}

// IsEUMember reports whether the normalized code is in the EU set.
func IsEUMember(code string) bool {
	_, ok := euMembers[code]
	return ok
}

func isDomestic(code string) bool {
	_, ok := domesticCodes[code]
	return ok
}

// DefaultRules returns the ordered precedence chain: UK domestic, EU
// reverse charge, EU consumer (charged at the domestic rate), export.
// Charging EU consumers the domestic rate mirrors the shop's jurisdiction
// policy; callers with a different policy supply their own chain.
func DefaultRules(domesticRate decimal.Decimal) []Rule {
	return []Rule{
		{
			Name:    "uk_domestic",
			Applies: func(c Context) bool { return isDomestic(c.DestinationCountry) },
			Rate:    domesticRate,
		},
		{
			Name: "eu_reverse_charge",
			Applies: func(c Context) bool {
				return IsEUMember(c.DestinationCountry) && c.HasValidVATNumber
			},
			Rate:         decimal.Zero,
			ExemptReason: ExemptReasonReverseCharge,
		},
		{
			Name:    "eu_consumer",
			Applies: func(c Context) bool { return IsEUMember(c.DestinationCountry) },
			Rate:    domesticRate,
		},
		{
			Name:         "export",
			Applies:      func(Context) bool { return true },
			Rate:         decimal.Zero,
			ExemptReason: ExemptReasonExport,
		},
	}
}

// NewResolver builds a resolver over an ordered rule chain.
func NewResolver(rules []Rule) (*Resolver, error) {
	if len(rules) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tax rule is required")
	}
	return &Resolver{rules: rules}, nil
}

// Normalize upper-cases and trims a country code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve picks the first matching rule and computes the VAT amount on the
// taxable base, rounded half-up to two decimal places. An empty or
// malformed destination is a hard failure; per the contract the caller is
// expected to have resolved the destination before pricing.
func (r *Resolver) Resolve(tc Context, taxable decimal.Decimal) (Assessment, error) {
	code := Normalize(tc.DestinationCountry)
	if len(code) != 2 {
		return Assessment{}, pkgerrors.New(pkgerrors.CodeValidation, "destination country could not be resolved")
	}
	normalized := Context{DestinationCountry: code, HasValidVATNumber: tc.HasValidVATNumber}

	for _, rule := range r.rules {
		if !rule.Applies(normalized) {
			continue
		}
		return Assessment{
			Rate:         rule.Rate,
			Amount:       taxable.Mul(rule.Rate).Round(2),
			ExemptReason: rule.ExemptReason,
			RuleName:     rule.Name,
		}, nil
	}
	return Assessment{}, pkgerrors.New(pkgerrors.CodeValidation, "no tax rule matched destination")
}
