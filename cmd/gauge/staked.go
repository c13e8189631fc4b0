package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gaugeScope/internal/config"
	"gaugeScope/internal/fetcher"
	"gaugeScope/internal/model"
	"gaugeScope/internal/report"
)

func runStaked(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := listStaked(ctx, s.cfg, s.fetcher, s.printer, s.logger); err != nil {
		s.logger.Error("list staked positions", zap.Error(err))
	}
	return nil
}

// listStaked prints the staked count, then every position with its claimable reward.
func listStaked(ctx context.Context, cfg config.Config, f *fetcher.Fetcher, p *report.Printer, logger *zap.Logger) error {
	reward := rewardMeta(ctx, f, cfg, cfg.RewardToken, logger)

	_, err := f.WalkCounted(ctx, cfg.User,
		func(count uint64) error {
			return p.Summary(cfg.User, count)
		},
		func(sp model.StakedPosition) error {
			return p.Position(report.Build(sp, reward))
		},
	)
	return err
}
