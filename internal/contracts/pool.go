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

// FetchPoolState reads slot0 from a CL pool.
func FetchPoolState(ctx context.Context, caller chain.Caller, pool common.Address, block *big.Int) (model.PoolState, error) {
	poolABI, err := CLPoolABI()
	if err != nil {
		return model.PoolState{}, retry.Permanent(fmt.Errorf("parse pool abi: %w", err))
	}

	values, err := callMethod(ctx, caller, pool, poolABI, "slot0", block)
	if err != nil {
		return model.PoolState{}, err
	}
	if len(values) != 6 {
		return model.PoolState{}, retry.Permanent(fmt.Errorf("slot0 return size %d", len(values)))
	}

	state, err := decodeSlot0(values)
	if err != nil {
		return model.PoolState{}, retry.Permanent(fmt.Errorf("decode slot0: %w", err))
	}
	return state, nil
}

func decodeSlot0(values []interface{}) (model.PoolState, error) {
	var (
		state model.PoolState
		err   error
	)

	if state.SqrtPriceX96, err = asBigInt(values[0]); err != nil {
		return state, fmt.Errorf("sqrt price: %w", err)
	}
	if state.SqrtPriceX96.Sign() == 0 {
		return state, fmt.Errorf("pool is not initialized")
	}
	if state.Tick, err = asInt24(values[1]); err != nil {
		return state, fmt.Errorf("tick: %w", err)
	}
	if state.ObservationIndex, err = asUint16(values[2]); err != nil {
		return state, fmt.Errorf("observation index: %w", err)
	}
	if state.ObservationCardinality, err = asUint16(values[3]); err != nil {
		return state, fmt.Errorf("observation cardinality: %w", err)
	}
	if state.ObservationCardinalityNext, err = asUint16(values[4]); err != nil {
		return state, fmt.Errorf("observation cardinality next: %w", err)
	}
	unlocked, ok := values[5].(bool)
	if !ok {
		return state, fmt.Errorf("unlocked: unsupported type %T", values[5])
	}
	state.Unlocked = unlocked

	return state, nil
}
