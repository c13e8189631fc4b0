package fetcher

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gaugeScope/internal/chain"
	"gaugeScope/internal/contracts"
	"gaugeScope/internal/model"
	"gaugeScope/internal/retry"
)

// Config holds the contract addresses and call settings for a fetch run.
type Config struct {
	Gauge           common.Address
	PositionManager common.Address
	// Block pins every read to one block; nil reads latest state.
	Block *big.Int
	Retry retry.Policy
}

// Fetcher issues the read-only calls against the gauge, position manager and pool.
// Calls run one at a time, each through the retry policy.
type Fetcher struct {
	cfg    Config
	caller chain.Caller
	logger *zap.Logger
	tokens *contracts.TokenMetaCache
}

// New builds a Fetcher with its dependencies.
func New(cfg Config, caller chain.Caller, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:    cfg,
		caller: caller,
		logger: logger,
		tokens: contracts.NewTokenMetaCache(),
	}
}

// Visitor receives each staked position in index order.
type Visitor func(model.StakedPosition) error

// CountFunc receives the staked count before any position is read.
type CountFunc func(count uint64) error

// Walk reads the user's staked count, then for every index in [0, count) the
// token id, its position and its accrued reward, and hands them to visit.
// The first error stops the walk; the count is returned whenever it was read.
func (f *Fetcher) Walk(ctx context.Context, user common.Address, visit Visitor) (uint64, error) {
	return f.WalkCounted(ctx, user, nil, visit)
}

// WalkCounted is Walk with a hook that runs once the count is known.
func (f *Fetcher) WalkCounted(ctx context.Context, user common.Address, onCount CountFunc, visit Visitor) (uint64, error) {
	if f.caller == nil {
		return 0, fmt.Errorf("chain caller is nil")
	}

	count, err := f.StakedCount(ctx, user)
	if err != nil {
		return 0, err
	}
	f.logger.Info("staked positions", zap.String("user", user.Hex()), zap.Uint64("count", count))
	if onCount != nil {
		if err := onCount(count); err != nil {
			return count, err
		}
	}

	for index := uint64(0); index < count; index++ {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		tokenID, err := f.StakedTokenID(ctx, user, index)
		if err != nil {
			return count, err
		}
		position, err := f.Position(ctx, tokenID)
		if err != nil {
			return count, err
		}
		reward, err := f.Earned(ctx, user, tokenID)
		if err != nil {
			return count, err
		}

		f.logger.Debug("position fetched", zap.Uint64("index", index), zap.String("token_id", tokenID.String()))

		if visit == nil {
			continue
		}
		if err := visit(model.StakedPosition{Index: index, Position: position, Reward: reward}); err != nil {
			return count, err
		}
	}

	return count, nil
}

// StakedCount returns the number of positions user has staked in the gauge.
func (f *Fetcher) StakedCount(ctx context.Context, user common.Address) (uint64, error) {
	count, err := withRetry(ctx, f, "stakedLength", func(ctx context.Context) (uint64, error) {
		return contracts.StakedLength(ctx, f.caller, f.cfg.Gauge, user, f.cfg.Block)
	}, zap.String("user", user.Hex()))
	if err != nil {
		return 0, fmt.Errorf("staked length: %w", err)
	}
	return count, nil
}

// StakedTokenID returns the token id at index of user's staked set.
func (f *Fetcher) StakedTokenID(ctx context.Context, user common.Address, index uint64) (*big.Int, error) {
	tokenID, err := withRetry(ctx, f, "stakedByIndex", func(ctx context.Context) (*big.Int, error) {
		return contracts.StakedByIndex(ctx, f.caller, f.cfg.Gauge, user, index, f.cfg.Block)
	}, zap.Uint64("index", index))
	if err != nil {
		return nil, fmt.Errorf("staked by index %d: %w", index, err)
	}
	return tokenID, nil
}

// Position returns the position manager record for tokenID.
func (f *Fetcher) Position(ctx context.Context, tokenID *big.Int) (model.Position, error) {
	position, err := withRetry(ctx, f, "positions", func(ctx context.Context) (model.Position, error) {
		return contracts.FetchPosition(ctx, f.caller, f.cfg.PositionManager, tokenID, f.cfg.Block)
	}, zap.String("token_id", tokenID.String()))
	if err != nil {
		return model.Position{}, fmt.Errorf("position %s: %w", tokenID, err)
	}
	return position, nil
}

// Earned returns the reward user has accrued on tokenID.
func (f *Fetcher) Earned(ctx context.Context, user common.Address, tokenID *big.Int) (model.RewardAccrual, error) {
	reward, err := withRetry(ctx, f, "earned", func(ctx context.Context) (model.RewardAccrual, error) {
		return contracts.Earned(ctx, f.caller, f.cfg.Gauge, user, tokenID, f.cfg.Block)
	}, zap.String("token_id", tokenID.String()))
	if err != nil {
		return model.RewardAccrual{}, fmt.Errorf("earned %s: %w", tokenID, err)
	}
	return reward, nil
}

// PoolState reads slot0 of pool.
func (f *Fetcher) PoolState(ctx context.Context, pool common.Address) (model.PoolState, error) {
	state, err := withRetry(ctx, f, "slot0", func(ctx context.Context) (model.PoolState, error) {
		return contracts.FetchPoolState(ctx, f.caller, pool, f.cfg.Block)
	}, zap.String("pool", pool.Hex()))
	if err != nil {
		return model.PoolState{}, fmt.Errorf("pool state: %w", err)
	}
	return state, nil
}

// GaugeInfo reads the pool and tokens the gauge was deployed for.
func (f *Fetcher) GaugeInfo(ctx context.Context) (model.GaugeInfo, error) {
	info, err := withRetry(ctx, f, "gaugeInfo", func(ctx context.Context) (model.GaugeInfo, error) {
		return contracts.FetchGaugeInfo(ctx, f.caller, f.cfg.Gauge, f.cfg.Block)
	}, zap.String("gauge", f.cfg.Gauge.Hex()))
	if err != nil {
		return model.GaugeInfo{}, fmt.Errorf("gauge info: %w", err)
	}
	return info, nil
}

// TokenMeta returns ERC20 metadata for token, cached for the life of the Fetcher.
func (f *Fetcher) TokenMeta(ctx context.Context, token common.Address) (model.TokenMeta, error) {
	if meta, ok := f.tokens.Get(token); ok {
		return meta, nil
	}
	meta, err := withRetry(ctx, f, "tokenMeta", func(ctx context.Context) (model.TokenMeta, error) {
		return contracts.FetchTokenMeta(ctx, f.caller, token, f.cfg.Block, f.logger)
	}, zap.String("token", token.Hex()))
	if err != nil {
		return model.TokenMeta{}, fmt.Errorf("token meta %s: %w", token.Hex(), err)
	}
	f.tokens.Set(token, meta)
	return meta, nil
}

func withRetry[T any](ctx context.Context, f *Fetcher, method string, fn func(context.Context) (T, error), fields ...zap.Field) (T, error) {
	return retry.Do(ctx, f.cfg.Retry, fn, func(err error, attempt int, next time.Duration) {
		f.logger.Warn(method+" failed",
			append(fields,
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", next),
			)...,
		)
	})
}
