package pair

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pairstate/internal/host"
	"pairstate/internal/storage/kvdb"
)

func anyAddress() *rapid.Generator[common.Address] {
	return rapid.Custom(func(t *rapid.T) common.Address {
		return common.BytesToAddress(rapid.SliceOfN(rapid.Byte(), common.AddressLength, common.AddressLength).Draw(t, "bytes"))
	})
}

func nonNullAddress() *rapid.Generator[common.Address] {
	return anyAddress().Filter(func(a common.Address) bool { return !IsNull(a) })
}

func freshClient(t *rapid.T) (*Client, func()) {
	store := kvdb.NewMemStore()
	h := host.New(host.Config{}, store, host.StaticLedger(testLedger), nil)
	contract := nonNullAddress().Draw(t, "contract")
	return NewClient(h, contract), func() { store.Close() }
}

func TestPropertyInitializeExactlyOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, done := freshClient(t)
		defer done()
		ctx := context.Background()

		factory := nonNullAddress().Draw(t, "factory")
		tokenA := nonNullAddress().Draw(t, "tokenA")
		tokenB := nonNullAddress().Filter(func(b common.Address) bool { return b != tokenA }).Draw(t, "tokenB")
		lpToken := nonNullAddress().Draw(t, "lpToken")

		require.NoError(t, c.Initialize(ctx, factory, tokenA, tokenB, lpToken))

		maybeNull := rapid.OneOf(rapid.Just(NullAddress()), anyAddress())
		err := c.Initialize(ctx,
			maybeNull.Draw(t, "factory2"),
			maybeNull.Draw(t, "tokenA2"),
			maybeNull.Draw(t, "tokenB2"),
			maybeNull.Draw(t, "lpToken2"),
		)
		require.ErrorIs(t, err, ErrAlreadyInitialized)

		reserves, err := c.GetReserves(ctx)
		require.NoError(t, err)
		require.True(t, reserves.Reserve0.IsZero())
		require.True(t, reserves.Reserve1.IsZero())
		require.Zero(t, reserves.BlockTimestampLast)

		fees, err := c.GetFeeState(ctx)
		require.NoError(t, err)
		require.Equal(t, DefaultFeeState(), fees)
	})
}

func TestPropertyIdenticalTokensRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, done := freshClient(t)
		defer done()

		token := nonNullAddress().Draw(t, "token")
		err := c.Initialize(context.Background(),
			nonNullAddress().Draw(t, "factory"),
			token,
			token,
			nonNullAddress().Draw(t, "lpToken"),
		)
		require.ErrorIs(t, err, ErrIdenticalTokens)
	})
}

func TestPropertyNullAddressRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, done := freshClient(t)
		defer done()

		args := []common.Address{
			nonNullAddress().Draw(t, "factory"),
			nonNullAddress().Draw(t, "tokenA"),
			nonNullAddress().Draw(t, "tokenB"),
			nonNullAddress().Draw(t, "lpToken"),
		}
		args[rapid.IntRange(0, len(args)-1).Draw(t, "position")] = NullAddress()

		err := c.Initialize(context.Background(), args[0], args[1], args[2], args[3])
		require.ErrorIs(t, err, ErrZeroAddress)

		_, err = c.GetReserves(context.Background())
		require.ErrorIs(t, err, host.ErrAborted)
	})
}

func TestPropertyTokenOrderIsCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		factory := nonNullAddress().Draw(t, "factory")
		tokenA := nonNullAddress().Draw(t, "tokenA")
		tokenB := nonNullAddress().Filter(func(b common.Address) bool { return b != tokenA }).Draw(t, "tokenB")
		lpToken := nonNullAddress().Draw(t, "lpToken")
		ctx := context.Background()

		forward, doneForward := freshClient(t)
		defer doneForward()
		backward, doneBackward := freshClient(t)
		defer doneBackward()

		require.NoError(t, forward.Initialize(ctx, factory, tokenA, tokenB, lpToken))
		require.NoError(t, backward.Initialize(ctx, factory, tokenB, tokenA, lpToken))

		fv, err := forward.Describe(ctx)
		require.NoError(t, err)
		bv, err := backward.Describe(ctx)
		require.NoError(t, err)

		require.Equal(t, fv.Token0, bv.Token0)
		require.Equal(t, fv.Token1, bv.Token1)
		require.Negative(t, common.HexToAddress(fv.Token0).Cmp(common.HexToAddress(fv.Token1)))
	})
}
