package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RewardAccrual is the reward amount earned by an account for one staked position.
type RewardAccrual struct {
	Account common.Address
	TokenID *big.Int
	Amount  *big.Int
}
