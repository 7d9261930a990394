package kvdb

import (
	"context"
	"fmt"
	"sync"

	dbm "github.com/cosmos/cosmos-db"

	"pairstate/internal/storage"
)

const dbName = "pairstate"

// Store keeps instance storage in a cosmos-db key-value database.
// The database is owned by one process; commitMu makes validate-then-write atomic within it.
type Store struct {
	db       dbm.DB
	commitMu sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// New wraps an already opened database.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

// NewMemStore returns a Store backed by an in-memory database.
func NewMemStore() *Store {
	return New(dbm.NewMemDB())
}

// NewLevelDBStore opens (or creates) a goleveldb database under dir.
func NewLevelDBStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("leveldb dir is required")
	}
	db, err := dbm.NewDB(dbName, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return New(db), nil
}

func (s *Store) Get(_ context.Context, ns string, key []byte) ([]byte, bool, error) {
	value, err := s.db.Get(namespacedKey(ns, key))
	if err != nil {
		return nil, false, fmt.Errorf("get %x: %w", key, err)
	}
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

// Commit checks reads against the database and writes all entries in one batch.
func (s *Store) Commit(_ context.Context, ns string, reads []storage.Read, writes []storage.Write) error {
	if len(writes) == 0 {
		return nil
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	for _, r := range reads {
		value, err := s.db.Get(namespacedKey(ns, r.Key))
		if err != nil {
			return fmt.Errorf("get %x: %w", r.Key, err)
		}
		if !r.Matches(value, value != nil) {
			return fmt.Errorf("key %x: %w", r.Key, storage.ErrConflict)
		}
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, w := range writes {
		if err := batch.Set(namespacedKey(ns, w.Key), w.Value); err != nil {
			return fmt.Errorf("batch set %x: %w", w.Key, err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func namespacedKey(ns string, key []byte) []byte {
	k := make([]byte, 0, len(ns)+1+len(key))
	k = append(k, ns...)
	k = append(k, '/')
	return append(k, key...)
}
