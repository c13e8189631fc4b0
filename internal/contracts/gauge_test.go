package contracts

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaugeScope/internal/chain/chaintest"
)

func TestGaugeReads(t *testing.T) {
	gaugeABI, err := GaugeABI()
	require.NoError(t, err)

	block := big.NewInt(20_000_000)
	caller := chaintest.NewCaller()
	caller.Returns(testGauge, gaugeABI, "stakedLength", big.NewInt(2))
	caller.Handle(testGauge, gaugeABI, "stakedByIndex", func(args []interface{}) ([]interface{}, error) {
		index := args[1].(*big.Int)
		return []interface{}{new(big.Int).Add(big.NewInt(1000), index)}, nil
	})
	caller.Returns(testGauge, gaugeABI, "earned", big.NewInt(5e17))

	ctx := context.Background()
	count, err := StakedLength(ctx, caller, testGauge, testUser, block)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	id, err := StakedByIndex(ctx, caller, testGauge, testUser, 1, block)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), id.Int64())

	reward, err := Earned(ctx, caller, testGauge, testUser, id, block)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", reward.Amount.String())
	assert.Equal(t, testUser, reward.Account)
	assert.Equal(t, int64(1001), reward.TokenID.Int64())

	calls := caller.Calls()
	require.Len(t, calls, 3)
	for _, call := range calls {
		assert.Equal(t, block, call.Block)
	}
	assert.Equal(t, testUser, calls[0].Args[0])
}

func TestFetchGaugeInfo(t *testing.T) {
	gaugeABI, err := GaugeABI()
	require.NoError(t, err)

	reward := common.HexToAddress("0x940181a94A35A4569E4529A3CDfB74e38FD98631")
	caller := chaintest.NewCaller()
	caller.Returns(testGauge, gaugeABI, "pool", testPool)
	caller.Returns(testGauge, gaugeABI, "token0", testToken0)
	caller.Returns(testGauge, gaugeABI, "token1", testToken1)
	caller.Returns(testGauge, gaugeABI, "rewardToken", reward)
	caller.Returns(testGauge, gaugeABI, "tickSpacing", big.NewInt(200))

	info, err := FetchGaugeInfo(context.Background(), caller, testGauge, nil)
	require.NoError(t, err)
	assert.Equal(t, testPool, info.Pool)
	assert.Equal(t, testToken0, info.Token0)
	assert.Equal(t, testToken1, info.Token1)
	assert.Equal(t, reward, info.RewardToken)
	assert.Equal(t, int32(200), info.TickSpacing)
}
