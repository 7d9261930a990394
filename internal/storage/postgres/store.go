package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairstate/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS instance_storage (
		namespace  TEXT        NOT NULL,
		key        BYTEA       NOT NULL,
		value      BYTEA       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)
`

// Store provides Postgres persistence for contract instance storage.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Get returns the value stored under key in namespace ns.
func (s *Store) Get(ctx context.Context, ns string, key []byte) ([]byte, bool, error) {
	var value []byte
	row := s.pool.QueryRow(ctx, `SELECT value FROM instance_storage WHERE namespace=$1 AND key=$2`, ns, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Commit validates reads and upserts all writes inside a single transaction.
// A transaction-scoped advisory lock on the namespace serializes concurrent
// commits, including ones whose reads observed a key as absent.
func (s *Store) Commit(ctx context.Context, ns string, reads []storage.Read, writes []storage.Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ns); err != nil {
		return fmt.Errorf("lock namespace: %w", err)
	}

	for _, r := range reads {
		var value []byte
		found := true
		err := tx.QueryRow(ctx, `SELECT value FROM instance_storage WHERE namespace=$1 AND key=$2`, ns, r.Key).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
		} else if err != nil {
			return fmt.Errorf("check %x: %w", r.Key, err)
		}
		if !r.Matches(value, found) {
			return fmt.Errorf("key %x: %w", r.Key, storage.ErrConflict)
		}
	}

	batch := &pgx.Batch{}
	for _, w := range writes {
		batch.Queue(`
			INSERT INTO instance_storage (namespace, key, value, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (namespace, key)
			DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = now()
		`, ns, w.Key, w.Value)
	}

	br := tx.SendBatch(ctx, batch)
	for range writes {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
