package contracts

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"gaugeScope/internal/chain"
	"gaugeScope/internal/retry"
)

// callMethod packs, executes and unpacks a single eth_call. A nil block reads latest state.
// Encoding failures are marked permanent: repeating the call cannot fix them.
func callMethod(ctx context.Context, caller chain.Caller, target common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	if caller == nil {
		return nil, retry.Permanent(fmt.Errorf("chain caller is nil"))
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("pack %s: %w", method, err))
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := caller.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("unpack %s: %w", method, err))
	}
	if len(values) == 0 {
		return nil, retry.Permanent(fmt.Errorf("unpack %s: empty result", method))
	}
	return values, nil
}

func callAddress(ctx context.Context, caller chain.Caller, target common.Address, parsed abi.ABI, method string, block *big.Int) (common.Address, error) {
	values, err := callMethod(ctx, caller, target, parsed, method, block)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, retry.Permanent(fmt.Errorf("%s: %w", method, err))
	}
	return addr, nil
}

func callBigInt(ctx context.Context, caller chain.Caller, target common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) (*big.Int, error) {
	values, err := callMethod(ctx, caller, target, parsed, method, block, args...)
	if err != nil {
		return nil, err
	}
	val, err := asBigInt(values[0])
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%s: %w", method, err))
	}
	return val, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("uint8 overflow: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func asUint16(value interface{}) (uint16, error) {
	switch v := value.(type) {
	case uint16:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 0xffff {
			return 0, fmt.Errorf("uint16 overflow: %s", v)
		}
		return uint16(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint16 type %T", value)
	}
}

func asInt24(value interface{}) (int32, error) {
	val, err := asBigInt(value)
	if err != nil {
		return 0, err
	}
	return int24FromBig(val)
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
