package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gaugeScope/internal/chain/chaintest"
	"gaugeScope/internal/config"
	"gaugeScope/internal/contracts"
	"gaugeScope/internal/fetcher"
	"gaugeScope/internal/model"
	"gaugeScope/internal/report"
	"gaugeScope/internal/retry"
)

var (
	testGauge   = common.HexToAddress(config.DefaultGauge)
	testManager = common.HexToAddress(config.DefaultPositionManager)
	testUser    = common.HexToAddress(config.DefaultUser)
	testPool    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testToken0  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testToken1  = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testReward  = common.HexToAddress("0x4000000000000000000000000000000000000004")
	otherToken  = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

func testConfig() config.Config {
	return config.Config{
		User:              testUser,
		Gauge:             testGauge,
		PositionManager:   testManager,
		RewardDecimals:    18,
		RewardSymbol:      "AERO",
		MaxAttempts:       2,
		SignificantDigits: 6,
	}
}

func mustABI(t *testing.T, load func() (abi.ABI, error)) abi.ABI {
	t.Helper()
	parsed, err := load()
	require.NoError(t, err)
	return parsed
}

// stakedChain fakes a gauge with one position per entry of pairs.
func stakedChain(t *testing.T, pairs [][2]common.Address) *chaintest.Caller {
	t.Helper()
	gaugeABI := mustABI(t, contracts.GaugeABI)
	managerABI := mustABI(t, contracts.PositionManagerABI)
	poolABI := mustABI(t, contracts.CLPoolABI)
	erc20 := mustABI(t, contracts.ERC20ABI)

	caller := chaintest.NewCaller()
	caller.Returns(testGauge, gaugeABI, "pool", testPool)
	caller.Returns(testGauge, gaugeABI, "token0", testToken0)
	caller.Returns(testGauge, gaugeABI, "token1", testToken1)
	caller.Returns(testGauge, gaugeABI, "rewardToken", testReward)
	caller.Returns(testGauge, gaugeABI, "tickSpacing", big.NewInt(100))

	tokens := []struct {
		addr     common.Address
		symbol   string
		decimals uint8
	}{
		{testToken0, "WETH", 18},
		{testToken1, "USDC", 6},
		{testReward, "AERO", 18},
	}
	for _, token := range tokens {
		caller.Returns(token.addr, erc20, "decimals", token.decimals)
		caller.Returns(token.addr, erc20, "symbol", token.symbol)
		caller.Returns(token.addr, erc20, "name", token.symbol)
	}

	caller.Returns(testPool, poolABI, "slot0",
		new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(0), uint16(0), uint16(1), uint16(1), true)

	caller.Returns(testGauge, gaugeABI, "stakedLength", big.NewInt(int64(len(pairs))))
	caller.Handle(testGauge, gaugeABI, "stakedByIndex", func(args []interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Add(big.NewInt(100), args[1].(*big.Int))}, nil
	})
	caller.Handle(testManager, managerABI, "positions", func(args []interface{}) ([]interface{}, error) {
		index := new(big.Int).Sub(args[0].(*big.Int), big.NewInt(100)).Int64()
		pair := pairs[index]
		return []interface{}{
			big.NewInt(0), common.Address{}, pair[0], pair[1],
			big.NewInt(100), big.NewInt(-100), big.NewInt(100), big.NewInt(1_000_000),
			big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(0),
		}, nil
	})
	caller.Handle(testGauge, gaugeABI, "earned", func([]interface{}) ([]interface{}, error) {
		return []interface{}{big.NewInt(2_000_000_000_000_000)}, nil
	})
	return caller
}

func newTestFetcher(caller *chaintest.Caller, logger *zap.Logger) *fetcher.Fetcher {
	return fetcher.New(fetcher.Config{
		Gauge:           testGauge,
		PositionManager: testManager,
		Retry:           retry.Policy{Attempts: 2},
	}, caller, logger)
}

func decodeLines(t *testing.T, out string) []model.PositionReport {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	reports := make([]model.PositionReport, 0, len(lines)-1)
	for _, line := range lines[1:] {
		var r model.PositionReport
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		reports = append(reports, r)
	}
	return reports
}

func TestListHoldingsSkipsMismatchedPair(t *testing.T) {
	caller := stakedChain(t, [][2]common.Address{
		{testToken0, testToken1},
		{testToken0, otherToken},
	})
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	var buf bytes.Buffer
	err := listHoldings(context.Background(), testConfig(), newTestFetcher(caller, logger), report.NewPrinter(&buf, report.FormatJSON), logger)
	require.NoError(t, err)

	reports := decodeLines(t, buf.String())
	require.Len(t, reports, 2)

	require.NotNil(t, reports[0].Holdings)
	assert.Equal(t, "WETH", reports[0].Holdings.Symbol0)
	assert.Equal(t, "USDC", reports[0].Holdings.Symbol1)
	assert.True(t, reports[0].Holdings.InRange)
	assert.Empty(t, reports[0].SkipReason)
	assert.Equal(t, "0.002", reports[0].RewardHuman)
	assert.Equal(t, "AERO", reports[0].RewardToken)

	assert.Nil(t, reports[1].Holdings)
	assert.NotEmpty(t, reports[1].SkipReason)
	assert.Equal(t, "101", reports[1].TokenID)
	assert.Equal(t, "1000000", reports[1].Details.Liquidity)
	assert.Equal(t, otherToken.Hex(), reports[1].Details.Token1)

	skipped := logs.FilterMessage("position pair does not match pool, skipping holdings")
	assert.Equal(t, 1, skipped.Len())
}

func TestListHoldingsReadsPoolStateOnce(t *testing.T) {
	caller := stakedChain(t, [][2]common.Address{
		{testToken0, testToken1},
		{testToken0, testToken1},
		{testToken0, testToken1},
	})

	var buf bytes.Buffer
	err := listHoldings(context.Background(), testConfig(), newTestFetcher(caller, nil), report.NewPrinter(&buf, report.FormatJSON), zap.NewNop())
	require.NoError(t, err)

	var slot0Calls int
	for _, method := range caller.Methods() {
		if method == "slot0" {
			slot0Calls++
		}
	}
	assert.Equal(t, 1, slot0Calls)
	assert.Len(t, decodeLines(t, buf.String()), 3)
}

func TestListHoldingsUsesConfiguredTarget(t *testing.T) {
	caller := stakedChain(t, nil)
	cfg := testConfig()
	cfg.Pool = testPool
	cfg.Token0 = testToken0
	cfg.Token1 = testToken1
	cfg.RewardToken = testReward

	var buf bytes.Buffer
	err := listHoldings(context.Background(), cfg, newTestFetcher(caller, nil), report.NewPrinter(&buf, report.FormatText), zap.NewNop())
	require.NoError(t, err)

	assert.NotContains(t, caller.Methods(), "pool")
	assert.NotContains(t, caller.Methods(), "slot0")
	assert.Equal(t, "User has 0 staked CL positions in the gauge.\n", buf.String())
}

func TestListStakedZeroPositions(t *testing.T) {
	caller := stakedChain(t, nil)

	var buf bytes.Buffer
	err := listStaked(context.Background(), testConfig(), newTestFetcher(caller, nil), report.NewPrinter(&buf, report.FormatText), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"stakedLength"}, caller.Methods())
	assert.Equal(t, "User has 0 staked CL positions in the gauge.\n", buf.String())
}

func TestListStakedPrintsEveryPosition(t *testing.T) {
	caller := stakedChain(t, [][2]common.Address{
		{testToken0, testToken1},
		{otherToken, testToken1},
	})

	var buf bytes.Buffer
	err := listStaked(context.Background(), testConfig(), newTestFetcher(caller, nil), report.NewPrinter(&buf, report.FormatText), zap.NewNop())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "User has 2 staked CL positions in the gauge.\n")
	assert.Contains(t, out, "Staked Position Token ID: 100\n")
	assert.Contains(t, out, "Staked Position Token ID: 101\n")
	assert.Contains(t, out, "Claimable AERO Emissions (raw): 2000000000000000\n")
	assert.Contains(t, out, "Claimable AERO Emissions (human-readable): 0.002\n")
	assert.NotContains(t, out, "Holdings")
}
