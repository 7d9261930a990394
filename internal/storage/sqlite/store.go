package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"pairstate/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS instance_storage (
		namespace  TEXT NOT NULL,
		key        BLOB NOT NULL,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, key)
	)
`

// Store keeps instance storage in a local SQLite file.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	// Immediate transactions take the write lock before validating reads, so two
	// processes sharing the file cannot both pass the same check.
	db, err := sql.Open("sqlite", path+"?_txlock=immediate&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps commits serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, ns string, key []byte) ([]byte, bool, error) {
	var value []byte
	row := s.db.QueryRowContext(ctx, `SELECT value FROM instance_storage WHERE namespace = ? AND key = ?`, ns, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %x: %w", key, err)
	}
	return value, true, nil
}

// Commit validates reads and upserts all writes inside a single transaction.
func (s *Store) Commit(ctx context.Context, ns string, reads []storage.Read, writes []storage.Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range reads {
		var value []byte
		found := true
		err := tx.QueryRowContext(ctx, `SELECT value FROM instance_storage WHERE namespace = ? AND key = ?`, ns, r.Key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
		} else if err != nil {
			return fmt.Errorf("check %x: %w", r.Key, err)
		}
		if !r.Matches(value, found) {
			return fmt.Errorf("key %x: %w", r.Key, storage.ErrConflict)
		}
	}

	for _, w := range writes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO instance_storage (namespace, key, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (namespace, key)
			DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, ns, w.Key, w.Value); err != nil {
			return fmt.Errorf("upsert %x: %w", w.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
