package amm

import (
	"fmt"

	"gaugeScope/internal/model"
)

// Convert derives display values for pos at the pool state.
// token0 and token1 must describe pos.Token0 and pos.Token1.
func Convert(pos model.Position, state model.PoolState, token0, token1 model.TokenMeta, digits int) (model.Holdings, error) {
	if digits <= 0 {
		digits = DefaultSignificantDigits
	}

	current, err := PriceFromSqrt(state.SqrtPriceX96, token0.Decimals, token1.Decimals)
	if err != nil {
		return model.Holdings{}, fmt.Errorf("current price: %w", err)
	}
	minPrice, maxPrice, err := PriceRange(pos.TickLower, pos.TickUpper, token0.Decimals, token1.Decimals)
	if err != nil {
		return model.Holdings{}, err
	}
	amount0, amount1, err := Amounts(pos.Liquidity, state.SqrtPriceX96, state.Tick, pos.TickLower, pos.TickUpper)
	if err != nil {
		return model.Holdings{}, fmt.Errorf("amounts: %w", err)
	}

	return model.Holdings{
		Symbol0:      token0.Label(),
		Symbol1:      token1.Label(),
		CurrentTick:  state.Tick,
		InRange:      InRange(state.Tick, pos.TickLower, pos.TickUpper),
		CurrentPrice: FormatSignificant(current, digits),
		MinPrice:     FormatSignificant(minPrice, digits),
		MaxPrice:     FormatSignificant(maxPrice, digits),
		Amount0:      FormatSignificant(ToUnits(amount0, token0.Decimals), digits),
		Amount1:      FormatSignificant(ToUnits(amount1, token1.Decimals), digits),
		Owed0:        FormatUnits(pos.TokensOwed0, token0.Decimals),
		Owed1:        FormatUnits(pos.TokensOwed1, token1.Decimals),
	}, nil
}
