package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gaugeScope/internal/amm"
	"gaugeScope/internal/config"
	"gaugeScope/internal/fetcher"
	"gaugeScope/internal/model"
	"gaugeScope/internal/report"
)

func runHoldings(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := listHoldings(ctx, s.cfg, s.fetcher, s.printer, s.logger); err != nil {
		s.logger.Error("list holdings", zap.Error(err))
	}
	return nil
}

// target is the pool and pair the staked positions are valued against.
type target struct {
	pool        common.Address
	token0      common.Address
	token1      common.Address
	rewardToken common.Address
}

// resolveTarget fills whatever the config leaves empty from the gauge.
func resolveTarget(ctx context.Context, cfg config.Config, f *fetcher.Fetcher, logger *zap.Logger) (target, error) {
	t := target{
		pool:        cfg.Pool,
		token0:      cfg.Token0,
		token1:      cfg.Token1,
		rewardToken: cfg.RewardToken,
	}
	zero := common.Address{}
	if t.pool != zero && t.token0 != zero && t.rewardToken != zero {
		return t, nil
	}

	info, err := f.GaugeInfo(ctx)
	if err != nil {
		return target{}, err
	}
	if t.pool == zero {
		t.pool = info.Pool
	}
	if t.token0 == zero {
		t.token0, t.token1 = info.Token0, info.Token1
	}
	if t.rewardToken == zero {
		t.rewardToken = info.RewardToken
	}

	logger.Info("gauge resolved",
		zap.String("pool", t.pool.Hex()),
		zap.String("token0", t.token0.Hex()),
		zap.String("token1", t.token1.Hex()),
		zap.String("reward_token", t.rewardToken.Hex()),
		zap.Int32("tick_spacing", info.TickSpacing),
	)
	return t, nil
}

// listHoldings prints every staked position with its price range and token amounts.
// Positions on another pair are printed without the derived section.
func listHoldings(ctx context.Context, cfg config.Config, f *fetcher.Fetcher, p *report.Printer, logger *zap.Logger) error {
	t, err := resolveTarget(ctx, cfg, f, logger)
	if err != nil {
		return err
	}

	meta0, err := f.TokenMeta(ctx, t.token0)
	if err != nil {
		return err
	}
	meta1, err := f.TokenMeta(ctx, t.token1)
	if err != nil {
		return err
	}
	reward := rewardMeta(ctx, f, cfg, t.rewardToken, logger)

	var state *model.PoolState
	_, err = f.WalkCounted(ctx, cfg.User,
		func(count uint64) error {
			return p.Summary(cfg.User, count)
		},
		func(sp model.StakedPosition) error {
			r := report.Build(sp, reward)
			pos := sp.Position

			if !pos.MatchesPair(t.token0, t.token1) {
				logger.Warn("position pair does not match pool, skipping holdings",
					zap.String("token_id", pos.TokenID.String()),
					zap.String("token0", pos.Token0.Hex()),
					zap.String("token1", pos.Token1.Hex()),
				)
				r.SkipReason = fmt.Sprintf("pair %s/%s is not %s/%s",
					pos.Token0.Hex(), pos.Token1.Hex(), t.token0.Hex(), t.token1.Hex())
				return p.Position(r)
			}

			if state == nil {
				current, err := f.PoolState(ctx, t.pool)
				if err != nil {
					return err
				}
				state = &current
			}

			holdings, err := amm.Convert(pos, *state, meta0, meta1, cfg.SignificantDigits)
			if err != nil {
				logger.Warn("holdings conversion failed",
					zap.String("token_id", pos.TokenID.String()),
					zap.Error(err),
				)
				r.SkipReason = err.Error()
				return p.Position(r)
			}
			r.Holdings = &holdings
			return p.Position(r)
		},
	)
	return err
}
