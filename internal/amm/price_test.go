package amm

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaugeScope/internal/model"
)

func TestPriceFromSqrtUnit(t *testing.T) {
	price, err := PriceFromSqrt(q96, 18, 18)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(1)), "price=%s", price)
}

func TestPriceFromSqrtDecimals(t *testing.T) {
	// raw price 1 with token0 at 18 decimals and token1 at 6 decimals
	price, err := PriceFromSqrt(q96, 18, 6)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000", price.String())

	price, err = PriceFromSqrt(q96, 6, 18)
	require.NoError(t, err)
	assert.Equal(t, "0.000000000001", price.String())
}

func TestPriceRange(t *testing.T) {
	minPrice, maxPrice, err := PriceRange(-100, 100, 0, 0)
	require.NoError(t, err)
	assert.True(t, minPrice.LessThan(maxPrice))
	assert.Equal(t, "0.99005", FormatSignificant(minPrice, 5))
	assert.Equal(t, "1.01005", FormatSignificant(maxPrice, 6))

	_, _, err = PriceRange(100, 100, 0, 0)
	assert.Error(t, err)
}

func TestRoundSignificant(t *testing.T) {
	cases := []struct {
		in     string
		digits int
		want   string
	}{
		{"1234.5678", 6, "1234.57"},
		{"0.00123456789", 4, "0.001235"},
		{"1234567", 3, "1230000"},
		{"-98.7654", 3, "-98.8"},
		{"0", 6, "0"},
		{"42", 0, "42"},
	}
	for _, tc := range cases {
		got := FormatSignificant(decimal.RequireFromString(tc.in), tc.digits)
		assert.Equal(t, tc.want, got, "round %s to %d", tc.in, tc.digits)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0.5", FormatUnits(big.NewInt(5e17), 18))
	assert.Equal(t, "1.0", FormatUnits(big.NewInt(1e18), 18))
	assert.Equal(t, "0.0", FormatUnits(big.NewInt(0), 18))
	assert.Equal(t, "12.0", FormatUnits(big.NewInt(12), 0))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "0.0", FormatUnits(nil, 6))
}

func TestConvertExample(t *testing.T) {
	sqrt, err := SqrtRatioAtTick(0)
	require.NoError(t, err)

	pos := model.Position{
		TickLower:   -100,
		TickUpper:   100,
		Liquidity:   big.NewInt(1_000_000),
		TokensOwed0: big.NewInt(0),
		TokensOwed1: big.NewInt(25),
	}
	state := model.PoolState{SqrtPriceX96: sqrt, Tick: 0}
	token0 := model.TokenMeta{Symbol: "AAA", Decimals: 0}
	token1 := model.TokenMeta{Symbol: "BBB", Decimals: 1}

	holdings, err := Convert(pos, state, token0, token1, 0)
	require.NoError(t, err)

	minPrice := decimal.RequireFromString(holdings.MinPrice)
	maxPrice := decimal.RequireFromString(holdings.MaxPrice)
	assert.True(t, minPrice.LessThan(maxPrice))

	amount0 := decimal.RequireFromString(holdings.Amount0)
	amount1 := decimal.RequireFromString(holdings.Amount1)
	assert.True(t, amount0.IsPositive(), "amount0=%s", holdings.Amount0)
	assert.True(t, amount1.IsPositive(), "amount1=%s", holdings.Amount1)

	assert.True(t, holdings.InRange)
	assert.Equal(t, "AAA", holdings.Symbol0)
	assert.Equal(t, "BBB", holdings.Symbol1)
	assert.Equal(t, "2.5", holdings.Owed1)
	assert.Equal(t, "0.0", holdings.Owed0)
}
