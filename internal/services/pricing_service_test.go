package services_test

import (
	"testing"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelingProduct() *model.Product {
	return &model.Product{
		ProductID: "lvl-1",
		Name:      "Power Leveling",
		Category:  model.CategoryLeveling,
		InStock:   true,
		Leveling: &model.LevelingPricing{
			BasePriceBRL:       decimal.RequireFromString("50"),
			BasePriceUSD:       decimal.RequireFromString("10"),
			LevelMultiplierBRL: decimal.RequireFromString("2.5"),
			LevelMultiplierUSD: decimal.RequireFromString("0.5"),
			MaxLevel:           100,
			AvailableJobs:      []string{"WAR", "WHM", "SAM"},
		},
	}
}

func gilProduct(available, sold string) *model.Product {
	return &model.Product{
		ProductID: "gil-1",
		Name:      "Gil",
		Category:  model.CategoryGil,
		InStock:   true,
		Gil: &model.GilPricing{
			PricePerMillionBRL: decimal.RequireFromString("25.00"),
			PricePerMillionUSD: decimal.RequireFromString("5.00"),
			AvailableGil:       decimal.RequireFromString(available),
			SoldGil:            decimal.RequireFromString(sold),
		},
	}
}

func TestPriceLeveling(t *testing.T) {
	t.Parallel()

	p := levelingProduct()

	t.Run("deterministic formula", func(t *testing.T) {
		t.Parallel()

		// 10 + 49*0.5 = 34.5, independent of prior calls
		for i := 0; i < 3; i++ {
			got, err := services.PriceLeveling(p, 1, 50, model.CurrencyUSD)
			require.NoError(t, err)
			assert.Equal(t, "34.50", got.StringFixed(2))
		}

		got, err := services.PriceLeveling(p, 1, 50, model.CurrencyBRL)
		require.NoError(t, err)
		assert.Equal(t, "172.50", got.StringFixed(2))
	})

	t.Run("range preconditions", func(t *testing.T) {
		t.Parallel()

		_, err := services.PriceLeveling(p, 0, 10, model.CurrencyUSD)
		assert.Error(t, err)

		// zero-length range fails the ordering check
		_, err = services.PriceLeveling(p, 10, 10, model.CurrencyUSD)
		assert.Error(t, err)

		_, err = services.PriceLeveling(p, 50, 10, model.CurrencyUSD)
		assert.Error(t, err)

		_, err = services.PriceLeveling(p, 1, 101, model.CurrencyUSD)
		assert.Error(t, err)

		_, err = services.PriceLeveling(p, 1, 100, model.CurrencyUSD)
		assert.NoError(t, err)
	})

	t.Run("wrong category", func(t *testing.T) {
		t.Parallel()

		_, err := services.PriceLeveling(gilProduct("100", "0"), 1, 10, model.CurrencyUSD)
		assert.Error(t, err)
	})
}

func TestPriceGil(t *testing.T) {
	t.Parallel()

	t.Run("price per million", func(t *testing.T) {
		t.Parallel()

		got, err := services.PriceGil(gilProduct("100", "40"), decimal.RequireFromString("12"), model.CurrencyUSD)
		require.NoError(t, err)
		assert.Equal(t, "60.00", got.StringFixed(2))
	})

	t.Run("bounded by remaining pool", func(t *testing.T) {
		t.Parallel()

		p := gilProduct("100", "40")

		_, err := services.PriceGil(p, decimal.RequireFromString("61"), model.CurrencyUSD)
		assert.ErrorIs(t, err, services.ErrInsufficientStock)

		_, err = services.PriceGil(p, decimal.RequireFromString("60"), model.CurrencyUSD)
		assert.NoError(t, err)

		_, err = services.PriceGil(p, decimal.Zero, model.CurrencyUSD)
		assert.Error(t, err)
	})
}

func TestTotalOf(t *testing.T) {
	t.Parallel()

	lines := []model.CartLine{
		{LineID: "a", PriceBRL: "10.00", PriceUSD: "2.00", Quantity: 2},
		{LineID: "b", PriceBRL: "5.50", PriceUSD: "1.10", Quantity: 1},
	}

	total, err := services.TotalOf(lines, model.CurrencyBRL)
	require.NoError(t, err)
	assert.Equal(t, "25.50", total.StringFixed(2))

	total, err = services.TotalOf(lines, model.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, "5.10", total.StringFixed(2))
}

func TestTotalOfNoFloatDrift(t *testing.T) {
	t.Parallel()

	// 0.10 summed 1000 times is exactly 100.00
	lines := make([]model.CartLine, 1000)
	for i := range lines {
		lines[i] = model.CartLine{PriceBRL: "0.10", PriceUSD: "0.10", Quantity: 1}
	}

	total, err := services.TotalOf(lines, model.CurrencyBRL)
	require.NoError(t, err)
	assert.Equal(t, "100.00", total.StringFixed(2))
}
