package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Compiled-in defaults. Pool and pair are resolved from the gauge when empty.
const (
	DefaultRPCURL          = "https://mainnet.base.org"
	DefaultUser            = "0x8A9bBEbA43E3cEc41E7922E13644cE37abE63D2f"
	DefaultPositionManager = "0x827922686190790b37229fd06084350E74485b72"
	DefaultGauge           = "0x6399ed6725cC163D019aA64FF55b22149D7179A8"
	DefaultRewardDecimals  = 18
	DefaultRewardSymbol    = "AERO"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL            string
	User              common.Address
	Gauge             common.Address
	PositionManager   common.Address
	Pool              common.Address
	Token0            common.Address
	Token1            common.Address
	RewardToken       common.Address
	RewardDecimals    int
	RewardSymbol      string
	MaxAttempts       int
	RetryDelay        time.Duration
	SignificantDigits int
	Block             *big.Int
	Format            string
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GAUGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", DefaultRPCURL)
	v.SetDefault("user", DefaultUser)
	v.SetDefault("gauge", DefaultGauge)
	v.SetDefault("position-manager", DefaultPositionManager)
	v.SetDefault("pool", "")
	v.SetDefault("token0", "")
	v.SetDefault("token1", "")
	v.SetDefault("reward-token", "")
	v.SetDefault("reward-decimals", DefaultRewardDecimals)
	v.SetDefault("reward-symbol", DefaultRewardSymbol)
	v.SetDefault("max-attempts", 3)
	v.SetDefault("retry-delay", time.Second)
	v.SetDefault("significant-digits", 6)
	v.SetDefault("block", "")
	v.SetDefault("format", "text")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:            strings.TrimSpace(v.GetString("rpc")),
		RewardDecimals:    v.GetInt("reward-decimals"),
		RewardSymbol:      v.GetString("reward-symbol"),
		MaxAttempts:       v.GetInt("max-attempts"),
		RetryDelay:        v.GetDuration("retry-delay"),
		SignificantDigits: v.GetInt("significant-digits"),
		Format:            v.GetString("format"),
		LogLevel:          v.GetString("log-level"),
	}
	if cfg.RPCURL == "" {
		return Config{}, fmt.Errorf("rpc url is required")
	}
	if cfg.RewardDecimals < 0 || cfg.RewardDecimals > 255 {
		return Config{}, fmt.Errorf("invalid reward-decimals: %d", cfg.RewardDecimals)
	}
	if cfg.SignificantDigits <= 0 {
		return Config{}, fmt.Errorf("significant-digits must be positive")
	}
	if cfg.RetryDelay < 0 {
		return Config{}, fmt.Errorf("retry-delay must not be negative")
	}

	required := []struct {
		key string
		dst *common.Address
	}{
		{"user", &cfg.User},
		{"gauge", &cfg.Gauge},
		{"position-manager", &cfg.PositionManager},
	}
	for _, item := range required {
		addr, err := ParseAddress(v.GetString(item.key))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", item.key, err)
		}
		if addr == (common.Address{}) {
			return Config{}, fmt.Errorf("%s address is required", item.key)
		}
		*item.dst = addr
	}

	optional := []struct {
		key string
		dst *common.Address
	}{
		{"pool", &cfg.Pool},
		{"token0", &cfg.Token0},
		{"token1", &cfg.Token1},
		{"reward-token", &cfg.RewardToken},
	}
	for _, item := range optional {
		addr, err := ParseAddress(v.GetString(item.key))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", item.key, err)
		}
		*item.dst = addr
	}
	if (cfg.Token0 == common.Address{}) != (cfg.Token1 == common.Address{}) {
		return Config{}, fmt.Errorf("token0 and token1 must be set together")
	}

	block, err := ParseBlock(v.GetString("block"))
	if err != nil {
		return Config{}, err
	}
	cfg.Block = block

	return cfg, nil
}

// ParseAddress converts a hex string into common.Address. An empty input yields the zero address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseBlock accepts a decimal or 0x-prefixed block number. Empty or "latest" means nil.
func ParseBlock(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "latest") {
		return nil, nil
	}
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		value, err := hexutil.DecodeBig(input)
		if err != nil {
			return nil, fmt.Errorf("invalid block: %s", input)
		}
		return value, nil
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid block: %s", input)
	}
	return value, nil
}
