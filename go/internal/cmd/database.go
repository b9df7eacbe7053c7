package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/mcdev12/draftleague/go/internal/store/memory"
	"github.com/mcdev12/draftleague/go/internal/store/postgres"
)

// setupStore opens the configured backend. The returned cleanup is never nil.
func setupStore(ctx context.Context, cfg Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case storeDriverMemory:
		log.Warn().Msg("using in-memory store, state is lost on restart")
		return memory.New(), func() {}, nil
	case storeDriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	poolCfg, err := cfg.Database.PoolConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	st := postgres.New(pool)
	if err := st.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Database).
		Msg("connected to database")
	return st, pool.Close, nil
}
