package pair

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"pairstate/internal/host"
	"pairstate/internal/model"
	"pairstate/internal/storage/kvdb"
)

const testLedger = 1_000

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
	factoryAddr  = common.HexToAddress("0xfac7000000000000000000000000000000000001")
	tokenLow     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	tokenHigh    = common.HexToAddress("0x2000000000000000000000000000000000000002")
	lpTokenAddr  = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newTestClient(t testing.TB) *Client {
	t.Helper()
	store := kvdb.NewMemStore()
	t.Cleanup(func() { store.Close() })
	h := host.New(host.Config{}, store, host.StaticLedger(testLedger), nil)
	return NewClient(h, contractAddr)
}

func readPair(t *testing.T, c *Client) model.PairStorage {
	t.Helper()
	var record model.PairStorage
	require.NoError(t, c.host.Invoke(context.Background(), c.contract, "test_read", func(env *host.Env) error {
		record = GetPair(env)
		return nil
	}))
	return record
}

func TestInitializeHappyPath(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Initialize(ctx, factoryAddr, tokenLow, tokenHigh, lpTokenAddr))

	reserves, err := c.GetReserves(ctx)
	require.NoError(t, err)
	require.True(t, reserves.Reserve0.IsZero())
	require.True(t, reserves.Reserve1.IsZero())
	require.Zero(t, reserves.BlockTimestampLast)

	fees, err := c.GetFeeState(ctx)
	require.NoError(t, err)
	require.Equal(t, model.FeeState{BaselineBps: 30, MinBps: 10, MaxBps: 100}, fees)

	view, err := c.Describe(ctx)
	require.NoError(t, err)
	require.Equal(t, factoryAddr.Hex(), view.Factory)
	require.Equal(t, lpTokenAddr.Hex(), view.LPToken)
	require.False(t, view.Locked)
	require.Equal(t, uint32(testLedger)+InstanceTTLExtendTo, view.LiveUntilLedger)
}

func TestAlreadyInitialized(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Initialize(ctx, factoryAddr, tokenLow, tokenHigh, lpTokenAddr))

	err := c.Initialize(ctx, factoryAddr, tokenLow, tokenHigh, lpTokenAddr)
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	// The idempotency guard runs before argument validation.
	err = c.Initialize(ctx, NullAddress(), tokenLow, tokenLow, NullAddress())
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	// The stored identity is untouched.
	record := readPair(t, c)
	require.Equal(t, tokenLow, record.Token0)
	require.Equal(t, tokenHigh, record.Token1)
}

func TestIdenticalTokens(t *testing.T) {
	c := newTestClient(t)

	err := c.Initialize(context.Background(), factoryAddr, tokenLow, tokenLow, lpTokenAddr)
	require.ErrorIs(t, err, ErrIdenticalTokens)
}

func TestZeroAddressValidation(t *testing.T) {
	zero := NullAddress()
	cases := []struct {
		name                            string
		factory, tokenA, tokenB, lpToken common.Address
	}{
		{"factory", zero, tokenLow, tokenHigh, lpTokenAddr},
		{"token_a", factoryAddr, zero, tokenHigh, lpTokenAddr},
		{"token_b", factoryAddr, tokenLow, zero, lpTokenAddr},
		{"lp_token", factoryAddr, tokenLow, tokenHigh, zero},
		{"both tokens", factoryAddr, zero, zero, lpTokenAddr},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t)
			err := c.Initialize(context.Background(), tc.factory, tc.tokenA, tc.tokenB, tc.lpToken)
			require.ErrorIs(t, err, ErrZeroAddress)
		})
	}
}

func TestTokenOrdering(t *testing.T) {
	ctx := context.Background()

	ordered := newTestClient(t)
	require.NoError(t, ordered.Initialize(ctx, factoryAddr, tokenLow, tokenHigh, lpTokenAddr))
	record := readPair(t, ordered)
	require.Equal(t, tokenLow, record.Token0)
	require.Equal(t, tokenHigh, record.Token1)

	swapped := newTestClient(t)
	require.NoError(t, swapped.Initialize(ctx, factoryAddr, tokenHigh, tokenLow, lpTokenAddr))
	record = readPair(t, swapped)
	require.Equal(t, tokenLow, record.Token0)
	require.Equal(t, tokenHigh, record.Token1)

	reserves, err := swapped.GetReserves(ctx)
	require.NoError(t, err)
	require.True(t, reserves.Reserve0.IsZero())
	require.True(t, reserves.Reserve1.IsZero())
}

func TestReadsBeforeInitializeAbort(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetReserves(ctx)
	require.ErrorIs(t, err, host.ErrAborted)

	_, err = c.GetFeeState(ctx)
	require.ErrorIs(t, err, host.ErrAborted)

	_, err = c.Describe(ctx)
	require.ErrorIs(t, err, host.ErrAborted)
}

func TestFailedInitializePersistsNothing(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.ErrorIs(t, c.Initialize(ctx, factoryAddr, tokenLow, tokenLow, lpTokenAddr), ErrIdenticalTokens)

	err := c.host.Invoke(ctx, c.contract, "test_read", func(env *host.Env) error {
		require.False(t, env.Instance().Has(DataKeyPairStorage.Bytes()))
		require.False(t, env.Instance().Has(DataKeyFeeState.Bytes()))
		require.False(t, env.Instance().Has(DataKeyReentrancyGuard.Bytes()))
		_, ok := env.Instance().LiveUntil()
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Initialize(ctx, factoryAddr, tokenLow, tokenHigh, lpTokenAddr))
}

func TestSortTokens(t *testing.T) {
	token0, token1 := SortTokens(tokenHigh, tokenLow)
	require.Equal(t, tokenLow, token0)
	require.Equal(t, tokenHigh, token1)

	token0, token1 = SortTokens(tokenLow, tokenHigh)
	require.Equal(t, tokenLow, token0)
	require.Equal(t, tokenHigh, token1)
}

func TestIsNull(t *testing.T) {
	require.True(t, IsNull(common.HexToAddress("0x0000000000000000000000000000000000000000")))
	require.True(t, IsNull(common.Address{}))
	require.False(t, IsNull(common.HexToAddress("0x0000000000000000000000000000000000000001")))
}

func TestDefaultFeeStateIsValid(t *testing.T) {
	require.NoError(t, DefaultFeeState().Validate())
}

func TestDataKeysAreDistinct(t *testing.T) {
	seen := map[string]DataKey{}
	for _, k := range []DataKey{DataKeyPairStorage, DataKeyFeeState, DataKeyReentrancyGuard} {
		_, dup := seen[string(k.Bytes())]
		require.False(t, dup, k.String())
		seen[string(k.Bytes())] = k
	}
	require.Equal(t, "DataKey(9)", DataKey(9).String())
}
