package contracts

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"gaugeScope/internal/chain"
	"gaugeScope/internal/model"
	"gaugeScope/internal/retry"
)

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// FetchTokenMeta loads decimals, symbol and name through ERC20 calls.
// Only decimals is required; symbol and name fall back to bytes32 and are otherwise left empty.
func FetchTokenMeta(ctx context.Context, caller chain.Caller, token common.Address, block *big.Int, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := ERC20ABI()
	if err != nil {
		return meta, retry.Permanent(fmt.Errorf("parse erc20 abi: %w", err))
	}
	bytes32ABI, err := erc20Bytes32ABIInstance()
	if err != nil {
		return meta, retry.Permanent(fmt.Errorf("parse erc20 bytes32 abi: %w", err))
	}

	values, err := callMethod(ctx, caller, token, stringABI, "decimals", block)
	if err != nil {
		return meta, err
	}
	if meta.Decimals, err = asUint8(values[0]); err != nil {
		return meta, retry.Permanent(fmt.Errorf("decimals: %w", err))
	}

	meta.Symbol = fetchText(ctx, caller, token, "symbol", block, stringABI, bytes32ABI, logger)
	meta.Name = fetchText(ctx, caller, token, "name", block, stringABI, bytes32ABI, logger)

	return meta, nil
}

func fetchText(ctx context.Context, caller chain.Caller, token common.Address, method string, block *big.Int, stringABI, bytes32ABI abi.ABI, logger *zap.Logger) string {
	if values, err := callMethod(ctx, caller, token, stringABI, method, block); err == nil {
		if text, ok := values[0].(string); ok {
			return text
		}
	}
	values, err := callMethod(ctx, caller, token, bytes32ABI, method, block)
	if err != nil {
		logger.Debug(method+" call failed", zap.String("token", token.Hex()), zap.Error(err))
		return ""
	}
	text, _ := bytes32ToString(values[0])
	return text
}
