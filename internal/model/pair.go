package model

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// MaxBasisPoints is 100% expressed in basis points.
const MaxBasisPoints uint32 = 10_000

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// PairStorage is the identity and reserve record of a pair instance.
// Everything except the reserves and the timestamp is immutable once written.
type PairStorage struct {
	Factory            common.Address `json:"factory"`
	Token0             common.Address `json:"token_0"`
	Token1             common.Address `json:"token_1"`
	LPToken            common.Address `json:"lp_token"`
	Reserve0           sdkmath.Int    `json:"reserve_0"`
	Reserve1           sdkmath.Int    `json:"reserve_1"`
	BlockTimestampLast uint64         `json:"block_timestamp_last"`
}

// Validate checks that both reserves fit in a signed 128-bit integer.
func (p PairStorage) Validate() error {
	if !FitsInt128(p.Reserve0) {
		return fmt.Errorf("reserve_0 out of int128 range: %s", p.Reserve0)
	}
	if !FitsInt128(p.Reserve1) {
		return fmt.Errorf("reserve_1 out of int128 range: %s", p.Reserve1)
	}
	return nil
}

// Reserves returns the reserve tuple exposed to callers.
func (p PairStorage) Reserves() Reserves {
	return Reserves{
		Reserve0:           p.Reserve0,
		Reserve1:           p.Reserve1,
		BlockTimestampLast: p.BlockTimestampLast,
	}
}

// Reserves is the result of a reserves read.
type Reserves struct {
	Reserve0           sdkmath.Int `json:"reserve_0"`
	Reserve1           sdkmath.Int `json:"reserve_1"`
	BlockTimestampLast uint64      `json:"block_timestamp_last"`
}

// FeeState holds the fee bounds of a pair in basis points.
type FeeState struct {
	BaselineBps uint32 `json:"baseline_bps"`
	MinBps      uint32 `json:"min_bps"`
	MaxBps      uint32 `json:"max_bps"`
}

// Validate checks min <= baseline <= max <= 100%.
func (f FeeState) Validate() error {
	if f.MinBps > f.BaselineBps {
		return fmt.Errorf("min_bps %d above baseline_bps %d", f.MinBps, f.BaselineBps)
	}
	if f.BaselineBps > f.MaxBps {
		return fmt.Errorf("baseline_bps %d above max_bps %d", f.BaselineBps, f.MaxBps)
	}
	if f.MaxBps > MaxBasisPoints {
		return fmt.Errorf("max_bps %d above %d", f.MaxBps, MaxBasisPoints)
	}
	return nil
}

// ReentrancyGuard is the persisted lock flag for mutating pair operations.
type ReentrancyGuard struct {
	Locked bool `json:"locked"`
}

// FitsInt128 reports whether v is non-nil and within the signed 128-bit range.
func FitsInt128(v sdkmath.Int) bool {
	if v.IsNil() {
		return false
	}
	b := v.BigInt()
	return b.Cmp(minInt128) >= 0 && b.Cmp(maxInt128) <= 0
}
