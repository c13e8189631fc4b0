package model

import "math/big"

// PoolState holds the slot0 fields of a concentrated-liquidity pool.
type PoolState struct {
	SqrtPriceX96               *big.Int
	Tick                       int32
	ObservationIndex           uint16
	ObservationCardinality     uint16
	ObservationCardinalityNext uint16
	Unlocked                   bool
}
