// Package storagetest holds the behavior every storage.Store backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pairstate/internal/storage"
)

// Run exercises store against the storage.Store contract.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "ns-missing", []byte{0x01})
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, value)
	})

	t.Run("commit then get", func(t *testing.T) {
		require.NoError(t, store.Commit(ctx, "ns-a", nil, []storage.Write{
			{Key: []byte{0x01}, Value: []byte(`{"a":1}`)},
			{Key: []byte{0x02}, Value: []byte(`{"b":2}`)},
		}))

		value, ok, err := store.Get(ctx, "ns-a", []byte{0x01})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte(`{"a":1}`), value)

		value, ok, err = store.Get(ctx, "ns-a", []byte{0x02})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte(`{"b":2}`), value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Commit(ctx, "ns-b", nil, []storage.Write{{Key: []byte("k"), Value: []byte("v1")}}))
		require.NoError(t, store.Commit(ctx, "ns-b", nil, []storage.Write{{Key: []byte("k"), Value: []byte("v2")}}))

		value, ok, err := store.Get(ctx, "ns-b", []byte("k"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("v2"), value)
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		require.NoError(t, store.Commit(ctx, "ns-c", nil, []storage.Write{{Key: []byte("shared"), Value: []byte("c")}}))

		_, ok, err := store.Get(ctx, "ns-d", []byte("shared"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("empty commit", func(t *testing.T) {
		require.NoError(t, store.Commit(ctx, "ns-e", nil, nil))
	})
	t.Run("absent read still absent", func(t *testing.T) {
		key := []byte("guard")
		require.NoError(t, store.Commit(ctx, "ns-f", []storage.Read{{Key: key}}, []storage.Write{{Key: key, Value: []byte("first")}}))

		value, ok, err := store.Get(ctx, "ns-f", key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("first"), value)
	})

	t.Run("stale absent read conflicts", func(t *testing.T) {
		key := []byte("guard")
		absent := []storage.Read{{Key: key}}
		require.NoError(t, store.Commit(ctx, "ns-g", absent, []storage.Write{{Key: key, Value: []byte("first")}}))

		err := store.Commit(ctx, "ns-g", absent, []storage.Write{
			{Key: key, Value: []byte("second")},
			{Key: []byte("other"), Value: []byte("x")},
		})
		require.ErrorIs(t, err, storage.ErrConflict)

		value, ok, err := store.Get(ctx, "ns-g", key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("first"), value)

		_, ok, err = store.Get(ctx, "ns-g", []byte("other"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("changed value conflicts", func(t *testing.T) {
		key := []byte("counter")
		require.NoError(t, store.Commit(ctx, "ns-h", nil, []storage.Write{{Key: key, Value: []byte("1")}}))
		seen := []storage.Read{{Key: key, Value: []byte("1"), Found: true}}

		require.NoError(t, store.Commit(ctx, "ns-h", seen, []storage.Write{{Key: key, Value: []byte("2")}}))
		require.ErrorIs(t, store.Commit(ctx, "ns-h", seen, []storage.Write{{Key: key, Value: []byte("3")}}), storage.ErrConflict)

		value, _, err := store.Get(ctx, "ns-h", key)
		require.NoError(t, err)
		require.Equal(t, []byte("2"), value)
	})
}
