package catalog

import (
	"testing"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/enums"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

func testProducts() []models.Product {
	tier := "standard"
	return []models.Product{
		{ProductCode: "TL-1000", Description: "Angle grinder", BasePrice: money.MustParse("100"), Category: "power_tools", ProductType: enums.ProductTypeTool, Currency: enums.CurrencyGBP, IsActive: true},
		{ProductCode: "CN-2000", Description: "Cutting discs x10", BasePrice: money.MustParse("19.99"), Category: "abrasives", ProductType: enums.ProductTypeConsumable, PricingTier: &tier, Currency: enums.CurrencyGBP, IsActive: true},
		{ProductCode: "XX-0001", Description: "Retired widget", BasePrice: money.MustParse("5"), Category: "misc", ProductType: enums.ProductTypeOther, Currency: enums.CurrencyGBP, IsActive: false},
	}
}

func TestBuildSnapshotIndexesByNormalizedCode(t *testing.T) {
	t.Parallel()

	snap, err := BuildSnapshot(testProducts(), validLadderRows(), nil, []models.ShippingRate{
		{CountryCode: "GB", Rate: money.MustParse("4.95")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := snap.Product("tl-1000"); !ok {
		t.Fatalf("expected case-insensitive product lookup")
	}
	if _, ok := snap.Product(" TL-1000 "); !ok {
		t.Fatalf("expected trimmed product lookup")
	}
	if snap.ProductCount() != 2 {
		t.Fatalf("inactive products must be excluded, got %d", snap.ProductCount())
	}
	if _, ok := snap.Product("XX-0001"); ok {
		t.Fatalf("inactive product should not resolve")
	}
}

func TestBuildSnapshotGroupsBreaksByCategoryAndTier(t *testing.T) {
	t.Parallel()

	pct := money.MustParse("5")
	snap, err := BuildSnapshot(testProducts(), nil, []models.CategoryPriceBreak{
		{Category: "abrasives", PricingTier: "standard", MinQty: 1, DiscountPct: &pct},
		{Category: "abrasives", PricingTier: "trade", MinQty: 1, DiscountPct: &pct},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := snap.Breaks("abrasives", "standard"); len(got) != 1 {
		t.Fatalf("expected 1 standard break, got %d", len(got))
	}
	if got := snap.Breaks("abrasives", "unknown"); got != nil {
		t.Fatalf("expected nil for unknown tier, got %v", got)
	}
}

func TestBuildSnapshotRejectsDuplicateShippingRates(t *testing.T) {
	t.Parallel()

	_, err := BuildSnapshot(nil, nil, nil, []models.ShippingRate{
		{CountryCode: "GB", Rate: money.MustParse("4.95")},
		{CountryCode: "GB", Rate: money.MustParse("6.95")},
	})
	if err == nil {
		t.Fatalf("expected duplicate shipping rates to fail the build")
	}
}
