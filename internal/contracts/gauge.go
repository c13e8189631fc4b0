package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"gaugeScope/internal/chain"
	"gaugeScope/internal/model"
	"gaugeScope/internal/retry"
)

// StakedLength returns how many positions depositor has staked in the gauge.
func StakedLength(ctx context.Context, caller chain.Caller, gauge, depositor common.Address, block *big.Int) (uint64, error) {
	gaugeABI, err := GaugeABI()
	if err != nil {
		return 0, retry.Permanent(fmt.Errorf("parse gauge abi: %w", err))
	}
	count, err := callBigInt(ctx, caller, gauge, gaugeABI, "stakedLength", block, depositor)
	if err != nil {
		return 0, err
	}
	if !count.IsUint64() {
		return 0, retry.Permanent(fmt.Errorf("staked length does not fit in uint64: %s", count))
	}
	return count.Uint64(), nil
}

// StakedByIndex returns the token id at index in depositor's staked set.
func StakedByIndex(ctx context.Context, caller chain.Caller, gauge, depositor common.Address, index uint64, block *big.Int) (*big.Int, error) {
	gaugeABI, err := GaugeABI()
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("parse gauge abi: %w", err))
	}
	return callBigInt(ctx, caller, gauge, gaugeABI, "stakedByIndex", block, depositor, new(big.Int).SetUint64(index))
}

// Earned returns the reward accrued by account for tokenID.
func Earned(ctx context.Context, caller chain.Caller, gauge, account common.Address, tokenID *big.Int, block *big.Int) (model.RewardAccrual, error) {
	gaugeABI, err := GaugeABI()
	if err != nil {
		return model.RewardAccrual{}, retry.Permanent(fmt.Errorf("parse gauge abi: %w", err))
	}
	amount, err := callBigInt(ctx, caller, gauge, gaugeABI, "earned", block, account, tokenID)
	if err != nil {
		return model.RewardAccrual{}, err
	}
	return model.RewardAccrual{
		Account: account,
		TokenID: new(big.Int).Set(tokenID),
		Amount:  amount,
	}, nil
}

// FetchGaugeInfo reads the pool, pair, reward token and tick spacing the gauge was created for.
func FetchGaugeInfo(ctx context.Context, caller chain.Caller, gauge common.Address, block *big.Int) (model.GaugeInfo, error) {
	gaugeABI, err := GaugeABI()
	if err != nil {
		return model.GaugeInfo{}, retry.Permanent(fmt.Errorf("parse gauge abi: %w", err))
	}

	var info model.GaugeInfo
	if info.Pool, err = callAddress(ctx, caller, gauge, gaugeABI, "pool", block); err != nil {
		return model.GaugeInfo{}, err
	}
	if info.Token0, err = callAddress(ctx, caller, gauge, gaugeABI, "token0", block); err != nil {
		return model.GaugeInfo{}, err
	}
	if info.Token1, err = callAddress(ctx, caller, gauge, gaugeABI, "token1", block); err != nil {
		return model.GaugeInfo{}, err
	}
	if info.RewardToken, err = callAddress(ctx, caller, gauge, gaugeABI, "rewardToken", block); err != nil {
		return model.GaugeInfo{}, err
	}

	values, err := callMethod(ctx, caller, gauge, gaugeABI, "tickSpacing", block)
	if err != nil {
		return model.GaugeInfo{}, err
	}
	if info.TickSpacing, err = asInt24(values[0]); err != nil {
		return model.GaugeInfo{}, retry.Permanent(fmt.Errorf("tick spacing: %w", err))
	}

	return info, nil
}
