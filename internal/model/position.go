package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position is a snapshot of a position-manager NFT as returned by positions(tokenId).
type Position struct {
	TokenID                  *big.Int
	Nonce                    *big.Int
	Operator                 common.Address
	Token0                   common.Address
	Token1                   common.Address
	TickSpacing              int32
	TickLower                int32
	TickUpper                int32
	Liquidity                *big.Int
	FeeGrowthInside0LastX128 *big.Int
	FeeGrowthInside1LastX128 *big.Int
	TokensOwed0              *big.Int
	TokensOwed1              *big.Int
}

// MatchesPair reports whether the position holds exactly token0/token1 in that order.
func (p Position) MatchesPair(token0, token1 common.Address) bool {
	return p.Token0 == token0 && p.Token1 == token1
}

// StakedPosition is one entry of a depositor's stake in the gauge.
type StakedPosition struct {
	Index    uint64
	Position Position
	Reward   RewardAccrual
}
