package quotes

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.OrderQuote{}))
	return conn
}

func TestSaveAndGetQuote(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	result := &pricing.Result{
		LineItems: []pricing.PricedLine{{ProductCode: "TL-100", Quantity: 3}},
		Subtotal:  money.FromDecimal(money.MustParse("270.00")),
		Shipping:  money.FromDecimal(decimal.Zero),
		VATAmount: money.FromDecimal(money.MustParse("54.00")),
		VATRate:   money.MustParse("0.20"),
		Total:     money.FromDecimal(money.MustParse("324.00")),
		TotalSavings: money.FromDecimal(
			money.MustParse("30.00")),
		ValidationErrors: []string{"CN-1: no price breaks configured for tier \"bulk\" in category \"abrasives\""},
	}

	saved, err := repo.Save(context.Background(), result, "gb")
	require.NoError(t, err)
	require.Equal(t, "GB", saved.DestinationCountry)
	require.Equal(t, 1, saved.LineCount)

	loaded, err := repo.Get(context.Background(), saved.ID.String())
	require.NoError(t, err)
	require.True(t, loaded.Total.Equal(money.MustParse("324.00")))
	require.True(t, loaded.VATRate.Equal(money.MustParse("0.20")))
	require.Len(t, loaded.ValidationErrors, 1)
}

func TestGetMissingQuote(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.Get(context.Background(), "8f9a1a0e-0000-0000-0000-000000000000")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSaveRejectsNilResult(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.Save(context.Background(), nil, "GB")
	require.Error(t, err)
}
