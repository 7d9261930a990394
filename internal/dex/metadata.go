package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairstate/internal/model"
)

// ContractCaller executes read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

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

// AttachTokenMeta fills the token metadata of a pair view. Lookup failures are
// logged and leave the corresponding field empty.
func AttachTokenMeta(ctx context.Context, caller ContractCaller, cache *TokenMetaCache, view *model.PairView, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	view.Token0Meta = lookupTokenMeta(ctx, caller, cache, common.HexToAddress(view.Token0), logger)
	view.Token1Meta = lookupTokenMeta(ctx, caller, cache, common.HexToAddress(view.Token1), logger)
}

func lookupTokenMeta(ctx context.Context, caller ContractCaller, cache *TokenMetaCache, token common.Address, logger *zap.Logger) *model.TokenMeta {
	if cache != nil {
		if meta, ok := cache.Get(token); ok {
			return &meta
		}
	}
	meta, err := FetchTokenMeta(ctx, caller, token, logger)
	if err != nil {
		logger.Warn("token metadata fetch failed", zap.String("token", token.Hex()), zap.Error(err))
		return nil
	}
	if cache != nil {
		cache.Set(token, meta)
	}
	return &meta
}

// FetchTokenMeta loads decimals, symbol and name of an ERC20 token. Only a
// failed decimals call is an error; symbol and name are best effort.
func FetchTokenMeta(ctx context.Context, caller ContractCaller, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if caller == nil {
		return meta, fmt.Errorf("contract caller is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abis, err := loadERC20ABIs()
	if err != nil {
		return meta, err
	}
	r := tokenReader{ctx: ctx, caller: caller, token: token, abis: abis}

	value, err := r.call(abis.text, "decimals")
	if err != nil {
		return meta, err
	}
	if meta.Decimals, err = asUint8(value); err != nil {
		return meta, fmt.Errorf("decimals: %w", err)
	}

	if meta.Symbol, err = r.text("symbol"); err != nil {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	if meta.Name, err = r.text("name"); err != nil {
		logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	return meta, nil
}

// tokenReader issues eth_calls against one token contract.
type tokenReader struct {
	ctx    context.Context
	caller ContractCaller
	token  common.Address
	abis   erc20ABIs
}

// call runs a no-argument method and returns its single output.
func (r tokenReader) call(parsed abi.ABI, method string) (interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	resp, err := r.caller.CallContract(r.ctx, ethereum.CallMsg{To: &r.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s: expected one output, got %d", method, len(values))
	}
	return values[0], nil
}

// text reads a string method, falling back to the bytes32 encoding.
func (r tokenReader) text(method string) (string, error) {
	value, err := r.call(r.abis.text, method)
	if err == nil {
		if s, ok := value.(string); ok {
			return s, nil
		}
	}
	value, err = r.call(r.abis.bytes32, method)
	if err != nil {
		return "", err
	}
	s, ok := bytes32ToString(value)
	if !ok {
		return "", fmt.Errorf("%s: unsupported type %T", method, value)
	}
	return s, nil
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

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("value %s out of uint8 range", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
