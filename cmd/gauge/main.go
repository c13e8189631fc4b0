package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gaugeScope/internal/chain"
	"gaugeScope/internal/config"
	"gaugeScope/internal/fetcher"
	"gaugeScope/internal/model"
	"gaugeScope/internal/report"
	"gaugeScope/internal/retry"
)

func main() {
	root := &cobra.Command{
		Use:          "gauge",
		Short:        "Aerodrome Slipstream gauge position reader",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	stakedCmd := &cobra.Command{
		Use:   "staked",
		Short: "List staked positions and claimable emissions",
		Args:  cobra.NoArgs,
		RunE:  runStaked,
	}
	addCommonFlags(stakedCmd.Flags())

	root.AddCommand(stakedCmd)

	holdingsCmd := &cobra.Command{
		Use:   "holdings",
		Short: "List staked positions with price range and token amounts",
		Args:  cobra.NoArgs,
		RunE:  runHoldings,
	}
	addCommonFlags(holdingsCmd.Flags())
	holdingsCmd.Flags().String("pool", "", "pool address (default: read from the gauge)")
	holdingsCmd.Flags().String("token0", "", "expected token0 address (default: read from the gauge)")
	holdingsCmd.Flags().String("token1", "", "expected token1 address (default: read from the gauge)")
	holdingsCmd.Flags().Int("significant-digits", 6, "significant digits for prices and amounts")

	root.AddCommand(holdingsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("rpc", config.DefaultRPCURL, "Base RPC URL")
	flags.String("user", config.DefaultUser, "depositor address")
	flags.String("gauge", config.DefaultGauge, "CL gauge address")
	flags.String("position-manager", config.DefaultPositionManager, "position manager address")
	flags.String("reward-token", "", "reward token address (decimals and symbol are read from it)")
	flags.Int("reward-decimals", config.DefaultRewardDecimals, "reward decimals when the reward token is unknown")
	flags.String("reward-symbol", config.DefaultRewardSymbol, "reward symbol when the reward token is unknown")
	flags.Int("max-attempts", 3, "attempts per remote call")
	flags.Duration("retry-delay", time.Second, "delay between attempts")
	flags.String("block", "", "block number to read at (default latest)")
	flags.String("format", "text", "output format (text, json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

// session bundles what a subcommand needs for one run.
type session struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *chain.Client
	fetcher *fetcher.Fetcher
	printer *report.Printer
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	f := fetcher.New(fetcher.Config{
		Gauge:           cfg.Gauge,
		PositionManager: cfg.PositionManager,
		Block:           cfg.Block,
		Retry:           retry.Policy{Attempts: cfg.MaxAttempts, Delay: cfg.RetryDelay},
	}, client, logger)

	s := &session{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		fetcher: f,
		printer: report.NewPrinter(os.Stdout, format),
	}

	fields := []zap.Field{
		zap.String("rpc", cfg.RPCURL),
		zap.String("user", cfg.User.Hex()),
		zap.String("gauge", cfg.Gauge.Hex()),
		zap.String("position_manager", cfg.PositionManager.Hex()),
		zap.Int("max_attempts", cfg.MaxAttempts),
		zap.Duration("retry_delay", cfg.RetryDelay),
	}
	if cfg.Block != nil {
		fields = append(fields, zap.String("block", cfg.Block.String()))
	}
	if chainID, err := client.ChainID(ctx); err != nil {
		logger.Warn("chain id unavailable", zap.Error(err))
	} else {
		fields = append(fields, zap.String("chain_id", chainID.String()))
	}
	logger.Info("gauge start", append(fields, zap.String("command", cmd.Name()))...)

	return s, nil
}

func (s *session) close() {
	s.client.Close()
	_ = s.logger.Sync()
}

// rewardMeta describes the reward token, falling back to the configured decimals and symbol.
func rewardMeta(ctx context.Context, f *fetcher.Fetcher, cfg config.Config, token common.Address, logger *zap.Logger) model.TokenMeta {
	fallback := model.TokenMeta{
		Decimals: uint8(cfg.RewardDecimals),
		Symbol:   cfg.RewardSymbol,
	}
	if token == (common.Address{}) {
		return fallback
	}
	fallback.Address = token.Hex()

	meta, err := f.TokenMeta(ctx, token)
	if err != nil {
		logger.Warn("reward token metadata unavailable, using configured values",
			zap.String("token", token.Hex()),
			zap.Error(err),
		)
		return fallback
	}
	return meta
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
