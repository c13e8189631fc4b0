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

const positionsOutputs = 12

// FetchPosition reads positions(tokenID) from the position manager.
func FetchPosition(ctx context.Context, caller chain.Caller, manager common.Address, tokenID *big.Int, block *big.Int) (model.Position, error) {
	managerABI, err := PositionManagerABI()
	if err != nil {
		return model.Position{}, retry.Permanent(fmt.Errorf("parse position manager abi: %w", err))
	}

	values, err := callMethod(ctx, caller, manager, managerABI, "positions", block, tokenID)
	if err != nil {
		return model.Position{}, err
	}
	if len(values) != positionsOutputs {
		return model.Position{}, retry.Permanent(fmt.Errorf("positions return size %d", len(values)))
	}

	pos, err := decodePosition(values)
	if err != nil {
		return model.Position{}, retry.Permanent(fmt.Errorf("decode position %s: %w", tokenID, err))
	}
	pos.TokenID = new(big.Int).Set(tokenID)
	return pos, nil
}

func decodePosition(values []interface{}) (model.Position, error) {
	var (
		pos model.Position
		err error
	)

	if pos.Nonce, err = asBigInt(values[0]); err != nil {
		return pos, fmt.Errorf("nonce: %w", err)
	}
	if pos.Operator, err = asAddress(values[1]); err != nil {
		return pos, fmt.Errorf("operator: %w", err)
	}
	if pos.Token0, err = asAddress(values[2]); err != nil {
		return pos, fmt.Errorf("token0: %w", err)
	}
	if pos.Token1, err = asAddress(values[3]); err != nil {
		return pos, fmt.Errorf("token1: %w", err)
	}
	if pos.TickSpacing, err = asInt24(values[4]); err != nil {
		return pos, fmt.Errorf("tick spacing: %w", err)
	}
	if pos.TickLower, err = asInt24(values[5]); err != nil {
		return pos, fmt.Errorf("tick lower: %w", err)
	}
	if pos.TickUpper, err = asInt24(values[6]); err != nil {
		return pos, fmt.Errorf("tick upper: %w", err)
	}
	if pos.Liquidity, err = asBigInt(values[7]); err != nil {
		return pos, fmt.Errorf("liquidity: %w", err)
	}
	if pos.FeeGrowthInside0LastX128, err = asBigInt(values[8]); err != nil {
		return pos, fmt.Errorf("fee growth inside0: %w", err)
	}
	if pos.FeeGrowthInside1LastX128, err = asBigInt(values[9]); err != nil {
		return pos, fmt.Errorf("fee growth inside1: %w", err)
	}
	if pos.TokensOwed0, err = asBigInt(values[10]); err != nil {
		return pos, fmt.Errorf("tokens owed0: %w", err)
	}
	if pos.TokensOwed1, err = asBigInt(values[11]); err != nil {
		return pos, fmt.Errorf("tokens owed1: %w", err)
	}

	return pos, nil
}
