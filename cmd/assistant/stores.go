package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/config"
	"github.com/spec-kit/ticket-assistant/internal/persistence"
	"github.com/spec-kit/ticket-assistant/internal/repository"
)

// storeSet is the pair of collections backing the assistant.
type storeSet struct {
	tickets   repository.DocumentStore
	knowledge repository.DocumentStore
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storeSet, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory stores; data is lost on exit")
		return &storeSet{
			tickets:   repository.NewMemoryStore(),
			knowledge: repository.NewMemoryStore(),
			close:     func() {},
		}, nil

	case config.BackendSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		if err := persistence.RunSQLiteMigrations(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storeSet{
			tickets:   repository.NewSQLiteStore(db, repository.CollectionTickets),
			knowledge: repository.NewSQLiteStore(db, repository.CollectionKnowledge),
			close:     func() { _ = db.Close() },
		}, nil

	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &storeSet{
			tickets:   repository.NewPostgresStore(pool, repository.CollectionTickets),
			knowledge: repository.NewPostgresStore(pool, repository.CollectionKnowledge),
			close:     pg.Close,
		}, nil

	case config.BackendRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		return &storeSet{
			tickets:   repository.NewRedisStore(rdb.Client, cfg.Redis.KeyPrefix, repository.CollectionTickets),
			knowledge: repository.NewRedisStore(rdb.Client, cfg.Redis.KeyPrefix, repository.CollectionKnowledge),
			close:     rdb.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
