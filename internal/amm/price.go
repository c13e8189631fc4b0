package amm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSignificantDigits is the display precision for prices and amounts.
const DefaultSignificantDigits = 6

const floatPrec = 512

// PriceFromSqrt converts a Q64.96 sqrt price into the human price of token0 in token1.
func PriceFromSqrt(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8) (decimal.Decimal, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("invalid sqrt price")
	}

	num := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	num.Mul(num, pow10(decimals0))
	den := new(big.Int).Mul(q96, q96)
	den.Mul(den, pow10(decimals1))

	ratio := new(big.Float).SetPrec(floatPrec).SetInt(num)
	ratio.Quo(ratio, new(big.Float).SetPrec(floatPrec).SetInt(den))

	price, err := decimal.NewFromString(ratio.Text('e', 40))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price: %w", err)
	}
	return price, nil
}

// PriceAtTick returns the human price of token0 in token1 at tick.
func PriceAtTick(tick int32, decimals0, decimals1 uint8) (decimal.Decimal, error) {
	sqrt, err := SqrtRatioAtTick(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return PriceFromSqrt(sqrt, decimals0, decimals1)
}

// PriceRange evaluates each boundary tick on its own and returns (min, max).
func PriceRange(tickLower, tickUpper int32, decimals0, decimals1 uint8) (decimal.Decimal, decimal.Decimal, error) {
	if tickLower >= tickUpper {
		return decimal.Zero, decimal.Zero, fmt.Errorf("tick lower %d must be below tick upper %d", tickLower, tickUpper)
	}
	minPrice, err := PriceAtTick(tickLower, decimals0, decimals1)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("min price: %w", err)
	}
	maxPrice, err := PriceAtTick(tickUpper, decimals0, decimals1)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("max price: %w", err)
	}
	return minPrice, maxPrice, nil
}

// RoundSignificant rounds value half away from zero to digits significant digits.
func RoundSignificant(value decimal.Decimal, digits int) decimal.Decimal {
	if digits <= 0 || value.IsZero() {
		return value
	}
	coefficient := new(big.Int).Abs(value.Coefficient())
	intDigits := len(coefficient.String()) + int(value.Exponent())
	return value.Round(int32(digits - intDigits))
}

// FormatSignificant renders value rounded to digits significant digits.
func FormatSignificant(value decimal.Decimal, digits int) string {
	return RoundSignificant(value, digits).String()
}

// ToUnits scales a raw integer amount down by decimals.
func ToUnits(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// FormatUnits renders a raw integer amount with decimals, always keeping one fractional digit.
func FormatUnits(raw *big.Int, decimals uint8) string {
	text := ToUnits(raw, decimals).String()
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
