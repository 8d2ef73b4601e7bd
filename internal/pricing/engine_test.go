package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/enums"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

func strPtr(value string) *string { return &value }

func decPtr(value string) *decimal.Decimal {
	d := money.MustParse(value)
	return &d
}

func testSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()

	products := []models.Product{
		{
			ProductCode: "TL-100",
			Description: "Cordless drill",
			BasePrice:   money.MustParse("100.00"),
			Category:    "power-tools",
			ProductType: enums.ProductTypeTool,
			Currency:    enums.CurrencyGBP,
			IsActive:    true,
		},
		{
			ProductCode: "TL-101",
			Description: "Impact driver",
			BasePrice:   money.MustParse("80.00"),
			Category:    "power-tools",
			ProductType: enums.ProductTypeTool,
			Currency:    enums.CurrencyGBP,
			IsActive:    true,
		},
		{
			ProductCode: "CN-200",
			Description: "Sanding discs 125mm",
			BasePrice:   money.MustParse("10.00"),
			Category:    "abrasives",
			ProductType: enums.ProductTypeConsumable,
			PricingTier: strPtr("standard"),
			Currency:    enums.CurrencyGBP,
			IsActive:    true,
		},
		{
			ProductCode: "OT-300",
			Description: "Branded cap",
			BasePrice:   money.MustParse("5.00"),
			Category:    "merch",
			ProductType: enums.ProductTypeOther,
			Currency:    enums.CurrencyGBP,
			IsActive:    true,
		},
	}
	ladder := []models.ToolDiscountTier{
		{MinQty: 1, MaxQty: 4, DiscountPct: money.MustParse("10"), Active: true},
		{MinQty: 5, MaxQty: 9, DiscountPct: money.MustParse("15"), Active: true},
		{MinQty: 10, MaxQty: models.ToolLadderSentinelMaxQty, DiscountPct: money.MustParse("20"), Active: true},
	}
	breaks := []models.CategoryPriceBreak{
		{Category: "abrasives", PricingTier: "standard", MinQty: 10, DiscountPct: decPtr("5")},
		{Category: "abrasives", PricingTier: "standard", MinQty: 50, UnitPrice: decPtr("8.00")},
	}
	rates := []models.ShippingRate{
		{CountryCode: "GB", Rate: money.MustParse("5.00"), FreeShippingThreshold: decPtr("50.00")},
		{CountryCode: "DE", Rate: money.MustParse("12.00")},
	}

	snap, err := catalog.BuildSnapshot(products, ladder, breaks, rates)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	return snap
}

func testEngine(t *testing.T) *Engine {
	t.Helper()

	resolver, err := tax.NewResolver(tax.DefaultRules(money.MustParse("0.20")))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	engine, err := NewEngine(resolver, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func assertAmount(t *testing.T, got money.Amount, want string, label string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Fatalf("%s = %s, want %s", label, got.StringFixed(2), want)
	}
}

func TestPriceToolLadder(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "TL-100", Quantity: 3}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if len(result.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(result.LineItems))
	}
	line := result.LineItems[0]
	assertAmount(t, line.UnitPrice, "90.00", "unit price")
	assertAmount(t, line.LineTotal, "270.00", "line total")
	if line.DiscountApplied == nil || *line.DiscountApplied != "1-4 tools - 10% off" {
		t.Fatalf("discount label = %v", line.DiscountApplied)
	}
	assertAmount(t, result.Subtotal, "270.00", "subtotal")
	assertAmount(t, result.Shipping, "0.00", "shipping")
	assertAmount(t, result.VATAmount, "54.00", "vat")
	assertAmount(t, result.Total, "324.00", "total")
	assertAmount(t, result.TotalSavings, "30.00", "savings")
	if len(result.ValidationErrors) != 0 {
		t.Fatalf("unexpected validation errors: %v", result.ValidationErrors)
	}
}

func TestPricePoolsToolQuantitiesAcrossLines(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{
			{ProductCode: "TL-100", Quantity: 2},
			{ProductCode: "TL-101", Quantity: 3},
		},
		Tax: tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	// 5 tools in total lands on the 5-9 tier for every tool line.
	assertAmount(t, result.LineItems[0].UnitPrice, "85.00", "drill unit")
	assertAmount(t, result.LineItems[1].UnitPrice, "68.00", "driver unit")
	for _, line := range result.LineItems {
		if line.DiscountApplied == nil || *line.DiscountApplied != "5-9 tools - 15% off" {
			t.Fatalf("discount label = %v", line.DiscountApplied)
		}
	}
}

func TestPriceConsumableBreakpoints(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "CN-200", Quantity: 10}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	line := result.LineItems[0]
	assertAmount(t, line.UnitPrice, "9.50", "unit price")
	if line.DiscountApplied == nil || *line.DiscountApplied != "10+ units - 5% off" {
		t.Fatalf("discount label = %v", line.DiscountApplied)
	}
}

func TestPriceConsumableBelowFirstBreakpoint(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "CN-200", Quantity: 2}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	line := result.LineItems[0]
	assertAmount(t, line.UnitPrice, "10.00", "unit price")
	if line.DiscountApplied != nil {
		t.Fatalf("expected no discount label, got %q", *line.DiscountApplied)
	}
	// Small orders are valid, just undiscounted.
	if len(result.ValidationErrors) != 0 {
		t.Fatalf("unexpected validation errors: %v", result.ValidationErrors)
	}
}

func TestPriceExcludesOutOfRangeLadderRow(t *testing.T) {
	t.Parallel()

	products := []models.Product{{
		ProductCode: "TL-100",
		Description: "Cordless drill",
		BasePrice:   money.MustParse("100.00"),
		Category:    "power-tools",
		ProductType: enums.ProductTypeTool,
		Currency:    enums.CurrencyGBP,
		IsActive:    true,
	}}
	ladder := []models.ToolDiscountTier{
		{MinQty: 1, MaxQty: models.ToolLadderSentinelMaxQty, DiscountPct: money.MustParse("150"), Active: true},
	}
	rates := []models.ShippingRate{
		{CountryCode: "GB", Rate: money.MustParse("5.00"), FreeShippingThreshold: decPtr("50.00")},
	}
	snap, err := catalog.BuildSnapshot(products, ladder, nil, rates)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if issues := snap.Ladder().Issues(); len(issues) == 0 {
		t.Fatalf("expected the 150%% row to be recorded as a ladder issue")
	}

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), snap, nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "TL-100", Quantity: 1}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	// The broken row must never discount: full price, never a negative unit.
	line := result.LineItems[0]
	assertAmount(t, line.UnitPrice, "100.00", "unit price")
	if line.UnitPrice.IsNegative() {
		t.Fatalf("unit price went negative: %s", line.UnitPrice)
	}
	if line.DiscountApplied != nil {
		t.Fatalf("expected no discount label, got %q", *line.DiscountApplied)
	}
	assertAmount(t, result.TotalSavings, "0.00", "savings")
}

func TestPriceAppliesVATToShipping(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "OT-300", Quantity: 2}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	// 10.00 subtotal is below the 50.00 free-shipping threshold, so the
	// 5.00 flat rate applies and VAT covers subtotal plus shipping.
	assertAmount(t, result.Subtotal, "10.00", "subtotal")
	assertAmount(t, result.Shipping, "5.00", "shipping")
	assertAmount(t, result.VATAmount, "3.00", "vat")
	assertAmount(t, result.Total, "18.00", "total")
}

func TestPriceEmptyCart(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Tax: tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if len(result.LineItems) != 0 {
		t.Fatalf("expected no line items")
	}
	assertAmount(t, result.Total, "0.00", "total")
	if result.ValidationErrors == nil || len(result.ValidationErrors) != 0 {
		t.Fatalf("expected empty validation errors slice, got %v", result.ValidationErrors)
	}
}

func TestPriceRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	_, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "TL-100", Quantity: 0}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceSkipsUnknownProducts(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{
			{ProductCode: "TL-100", Quantity: 1},
			{ProductCode: "NOPE-1", Quantity: 2},
		},
		Tax: tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if len(result.LineItems) != 1 {
		t.Fatalf("expected unknown line to be skipped, got %d lines", len(result.LineItems))
	}
}

func TestPriceFailsWhenNoLineResolves(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	_, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "NOPE-1", Quantity: 2}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceMissingShippingRate(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	_, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "TL-100", Quantity: 1}},
		Tax:   tax.Context{DestinationCountry: "FR"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error for missing rate, got %v", err)
	}
}

func TestPriceEUReverseCharge(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{{ProductCode: "OT-300", Quantity: 2}},
		Tax:   tax.Context{DestinationCountry: "DE", HasValidVATNumber: true},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	assertAmount(t, result.VATAmount, "0.00", "vat")
	if result.VATExemptReason == nil || *result.VATExemptReason != tax.ExemptReasonReverseCharge {
		t.Fatalf("exempt reason = %v", result.VATExemptReason)
	}
	// 10.00 subtotal is below no threshold for DE: flat rate applies.
	assertAmount(t, result.Shipping, "12.00", "shipping")
	assertAmount(t, result.Total, "22.00", "total")
}

func TestPriceIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	snap := testSnapshot(t)
	input := QuoteInput{
		Lines: []CartLine{
			{ProductCode: "TL-100", Quantity: 7},
			{ProductCode: "CN-200", Quantity: 55},
		},
		Tax: tax.Context{DestinationCountry: "GB"},
	}

	first, err := engine.Price(context.Background(), snap, nil, input)
	if err != nil {
		t.Fatalf("first Price: %v", err)
	}
	second, err := engine.Price(context.Background(), snap, nil, input)
	if err != nil {
		t.Fatalf("second Price: %v", err)
	}
	if first.Total.StringFixed(2) != second.Total.StringFixed(2) {
		t.Fatalf("totals diverged: %s vs %s", first.Total.StringFixed(2), second.Total.StringFixed(2))
	}
}

func TestPriceLineInvariants(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	result, err := engine.Price(context.Background(), testSnapshot(t), nil, QuoteInput{
		Lines: []CartLine{
			{ProductCode: "TL-100", Quantity: 12},
			{ProductCode: "CN-200", Quantity: 50},
			{ProductCode: "OT-300", Quantity: 1},
		},
		Tax: tax.Context{DestinationCountry: "GB"},
	})
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	for _, line := range result.LineItems {
		if line.UnitPrice.IsNegative() || line.UnitPrice.GreaterThan(line.BasePrice.Decimal) {
			t.Fatalf("%s: unit %s outside 0..%s", line.ProductCode, line.UnitPrice, line.BasePrice)
		}
		expected := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if !line.LineTotal.Equal(expected) {
			t.Fatalf("%s: line total %s != %s", line.ProductCode, line.LineTotal, expected)
		}
	}
	if result.TotalSavings.IsNegative() {
		t.Fatalf("total savings negative: %s", result.TotalSavings)
	}
}
