// Package pair implements the initialization and read surface of a two-asset
// liquidity pair contract.
//
// A pair moves from uninitialized to initialized exactly once through
// Initialize. Identity (factory, canonically ordered tokens, LP token) is fixed
// from then on; reserves start at zero. Every operation takes the host.Env of
// the invocation it runs in, so all state lives in the instance storage of the
// invoked contract.
package pair

import (
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairstate/internal/host"
	"pairstate/internal/model"
)

// Default fee bounds in basis points.
const (
	DefaultBaselineBps uint32 = 30
	DefaultMinBps      uint32 = 10
	DefaultMaxBps      uint32 = 100
)

// Instance lifetime bump applied at initialization: 7 days of 5 second ledgers.
const (
	InstanceTTLThreshold uint32 = 120_960
	InstanceTTLExtendTo  uint32 = 120_960
)

// DefaultFeeState returns the fee bounds every pair starts with.
func DefaultFeeState() model.FeeState {
	return model.FeeState{
		BaselineBps: DefaultBaselineBps,
		MinBps:      DefaultMinBps,
		MaxBps:      DefaultMaxBps,
	}
}

// SortTokens orders two token addresses so that token0 < token1.
func SortTokens(tokenA, tokenB common.Address) (token0, token1 common.Address) {
	if tokenA.Cmp(tokenB) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// Initialize stores the pair identity, the default fee state and an unlocked
// reentrancy guard. Checks run in order and the first failure returns before
// anything is written: ErrAlreadyInitialized, ErrZeroAddress, ErrIdenticalTokens.
func Initialize(env *host.Env, factory, tokenA, tokenB, lpToken common.Address) error {
	if hasRecord(env, DataKeyPairStorage) {
		return ErrAlreadyInitialized
	}

	if IsNull(factory) || IsNull(tokenA) || IsNull(tokenB) || IsNull(lpToken) {
		return ErrZeroAddress
	}

	if tokenA == tokenB {
		return ErrIdenticalTokens
	}

	fees := DefaultFeeState()
	if err := fees.Validate(); err != nil {
		return ErrInvalidFee
	}

	token0, token1 := SortTokens(tokenA, tokenB)

	setPairStorage(env, model.PairStorage{
		Factory:            factory,
		Token0:             token0,
		Token1:             token1,
		LPToken:            lpToken,
		Reserve0:           sdkmath.ZeroInt(),
		Reserve1:           sdkmath.ZeroInt(),
		BlockTimestampLast: 0,
	})
	setRecord(env, DataKeyFeeState, fees)
	setRecord(env, DataKeyReentrancyGuard, model.ReentrancyGuard{Locked: false})

	env.Instance().ExtendTTL(InstanceTTLThreshold, InstanceTTLExtendTo)

	env.Logger().Info("pair initialized",
		zap.String("factory", factory.Hex()),
		zap.String("token0", token0.Hex()),
		zap.String("token1", token1.Hex()),
		zap.String("lp_token", lpToken.Hex()),
	)
	return nil
}

// GetReserves returns the current reserves. It aborts the invocation when the
// pair was never initialized.
func GetReserves(env *host.Env) model.Reserves {
	return getPairStorage(env).Reserves()
}

// GetFeeState returns the fee bounds. It aborts the invocation when the pair
// was never initialized.
func GetFeeState(env *host.Env) model.FeeState {
	return getFeeState(env)
}

// GetPair returns the full identity record.
func GetPair(env *host.Env) model.PairStorage {
	return getPairStorage(env)
}

// IsLocked reports whether the reentrancy guard is held.
func IsLocked(env *host.Env) bool {
	return getReentrancyGuard(env).Locked
}
