package storage

import (
	"bytes"
	"context"
	"errors"
)

// ErrConflict is returned by Commit when a value observed by the invocation
// changed before its writes could be applied.
var ErrConflict = errors.New("storage: read set changed since it was observed")

// Write is a single buffered instance storage mutation.
type Write struct {
	Key   []byte
	Value []byte
}

// Read is a value an invocation observed in the durable store.
// Found is false when the key was observed absent.
type Read struct {
	Key   []byte
	Value []byte
	Found bool
}

// Matches reports whether the current state of the key equals the observation.
func (r Read) Matches(value []byte, found bool) bool {
	if r.Found != found {
		return false
	}
	return !found || bytes.Equal(r.Value, value)
}

// Store is a durable key-value store for contract instance storage.
// Each contract instance owns one namespace.
//
// Commit validates reads and applies writes atomically: when any read no
// longer matches, nothing is written and ErrConflict is returned.
type Store interface {
	Get(ctx context.Context, ns string, key []byte) ([]byte, bool, error)
	Commit(ctx context.Context, ns string, reads []Read, writes []Write) error
	Close() error
}
