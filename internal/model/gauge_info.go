package model

import "github.com/ethereum/go-ethereum/common"

// GaugeInfo captures the immutable fields a gauge exposes about the pool it stakes.
type GaugeInfo struct {
	Pool        common.Address
	Token0      common.Address
	Token1      common.Address
	RewardToken common.Address
	TickSpacing int32
}
