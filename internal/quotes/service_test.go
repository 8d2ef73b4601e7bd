package quotes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	"github.com/harlandtools/commerce-backend/pkg/enums"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

type staticSource struct {
	snap *catalog.Snapshot
}

func (s staticSource) Snapshot(context.Context) (*catalog.Snapshot, error) {
	return s.snap, nil
}

func quoteTestSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()

	threshold := money.MustParse("500.00")
	snap, err := catalog.BuildSnapshot(
		[]models.Product{{
			ProductCode: "TL-100",
			Description: "Cordless drill",
			BasePrice:   money.MustParse("100.00"),
			Category:    "power_tools",
			ProductType: enums.ProductTypeTool,
			Currency:    enums.CurrencyGBP,
			IsActive:    true,
		}},
		[]models.ToolDiscountTier{
			{MinQty: 1, MaxQty: models.ToolLadderSentinelMaxQty, DiscountPct: money.MustParse("10"), Active: true},
		},
		nil,
		[]models.ShippingRate{
			{CountryCode: "GB", Rate: money.MustParse("5.00"), FreeShippingThreshold: &threshold},
		},
	)
	require.NoError(t, err)
	return snap
}

func quoteTestEngine(t *testing.T) *pricing.Engine {
	t.Helper()

	resolver, err := tax.NewResolver(tax.DefaultRules(money.MustParse("0.20")))
	require.NoError(t, err)
	engine, err := pricing.NewEngine(resolver, nil)
	require.NoError(t, err)
	return engine
}

func TestServiceQuotePersistsResult(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	service, err := NewService(ServiceParams{
		Source:  staticSource{snap: quoteTestSnapshot(t)},
		Engine:  quoteTestEngine(t),
		Repo:    repo,
		Persist: true,
	})
	require.NoError(t, err)

	result, err := service.Quote(context.Background(), pricing.QuoteInput{
		Lines: []pricing.CartLine{{ProductCode: "TL-100", Quantity: 2}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	require.NoError(t, err)
	require.True(t, result.Subtotal.Equal(money.MustParse("180.00")))

	var stored []models.OrderQuote
	require.NoError(t, conn.Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, "GB", stored[0].DestinationCountry)
	require.True(t, stored[0].Subtotal.Equal(money.MustParse("180.00")))
}

func TestServiceQuoteWithoutPersistence(t *testing.T) {
	conn := openTestDB(t)

	service, err := NewService(ServiceParams{
		Source:  staticSource{snap: quoteTestSnapshot(t)},
		Engine:  quoteTestEngine(t),
		Persist: false,
	})
	require.NoError(t, err)

	_, err = service.Quote(context.Background(), pricing.QuoteInput{
		Lines: []pricing.CartLine{{ProductCode: "TL-100", Quantity: 1}},
		Tax:   tax.Context{DestinationCountry: "GB"},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.OrderQuote{}).Count(&count).Error)
	require.Zero(t, count)

	_, err = service.Get(context.Background(), "any")
	require.Error(t, err)
}

func TestNewServiceRejectsBadWiring(t *testing.T) {
	_, err := NewService(ServiceParams{Engine: quoteTestEngine(t)})
	require.Error(t, err)

	_, err = NewService(ServiceParams{
		Source:  staticSource{},
		Engine:  quoteTestEngine(t),
		Persist: true,
	})
	require.Error(t, err)
}
