package amm

import (
	"fmt"
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/utils"
)

// Tick bounds of a concentrated-liquidity pool.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// SqrtRatioAtTick returns sqrt(1.0001^tick) as a Q64.96 value.
func SqrtRatioAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("tick %d out of range [%d, %d]", tick, MinTick, MaxTick)
	}
	sqrt, err := utils.GetSqrtRatioAtTick(int(tick))
	if err != nil {
		return nil, fmt.Errorf("sqrt ratio at tick %d: %w", tick, err)
	}
	return sqrt, nil
}

// TickAtSqrtRatio returns the greatest tick whose sqrt ratio is <= sqrtPriceX96.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int32, error) {
	if sqrtPriceX96 == nil {
		return 0, fmt.Errorf("sqrt price is nil")
	}
	tick, err := utils.GetTickAtSqrtRatio(sqrtPriceX96)
	if err != nil {
		return 0, fmt.Errorf("tick at sqrt ratio %s: %w", sqrtPriceX96, err)
	}
	return int32(tick), nil
}

// Amounts returns the raw token0/token1 amounts that liquidity represents between
// tickLower and tickUpper at the given pool price. The current tick selects the
// branch and the sqrt price is used for the in-range split. Amounts round down.
func Amounts(liquidity *big.Int, sqrtPriceX96 *big.Int, currentTick, tickLower, tickUpper int32) (*big.Int, *big.Int, error) {
	if liquidity == nil || liquidity.Sign() < 0 {
		return nil, nil, fmt.Errorf("invalid liquidity")
	}
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return nil, nil, fmt.Errorf("invalid sqrt price")
	}
	if tickLower >= tickUpper {
		return nil, nil, fmt.Errorf("tick lower %d must be below tick upper %d", tickLower, tickUpper)
	}

	sqrtLower, err := SqrtRatioAtTick(tickLower)
	if err != nil {
		return nil, nil, err
	}
	sqrtUpper, err := SqrtRatioAtTick(tickUpper)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case currentTick < tickLower:
		return utils.GetAmount0Delta(sqrtLower, sqrtUpper, liquidity, false), big.NewInt(0), nil
	case currentTick < tickUpper:
		amount0 := utils.GetAmount0Delta(sqrtPriceX96, sqrtUpper, liquidity, false)
		amount1 := utils.GetAmount1Delta(sqrtLower, sqrtPriceX96, liquidity, false)
		return amount0, amount1, nil
	default:
		return big.NewInt(0), utils.GetAmount1Delta(sqrtLower, sqrtUpper, liquidity, false), nil
	}
}

// InRange reports whether the current tick lies in [tickLower, tickUpper).
func InRange(currentTick, tickLower, tickUpper int32) bool {
	return currentTick >= tickLower && currentTick < tickUpper
}
