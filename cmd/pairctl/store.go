package main

import (
	"context"
	"fmt"

	"pairstate/internal/config"
	"pairstate/internal/storage"
	"pairstate/internal/storage/kvdb"
	"pairstate/internal/storage/postgres"
	"pairstate/internal/storage/sqlite"
)

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return kvdb.NewMemStore(), nil
	case config.StoreLevelDB:
		return kvdb.NewLevelDBStore(cfg.StorePath)
	case config.StorePostgres:
		return postgres.NewStore(ctx, cfg.PGDSN)
	case config.StoreSQLite:
		return sqlite.Open(ctx, cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
