package infra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/characters"
	"github.com/hptracker/backend/internal/config"
	"github.com/hptracker/backend/internal/db"
	"github.com/hptracker/backend/internal/migrations"
	"github.com/hptracker/backend/internal/store"
)

// Infra holds the opened backends. Redis is nil when rate limiting is off.
type Infra struct {
	Store characters.Store
	SQL   *sql.DB
	PG    *pgxpool.Pool
	Redis *redis.Client
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Infra, error) {
	i := &Infra{}
	if err := i.openStore(ctx, cfg); err != nil {
		i.Close()
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			i.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		i.Redis = rdb
	}

	logger.Info("infra ready",
		zap.String("store", cfg.Store.Backend),
		zap.Bool("redis", i.Redis != nil),
	)
	return i, nil
}

func (i *Infra) openStore(ctx context.Context, cfg config.Config) error {
	switch cfg.Store.Backend {
	case config.BackendFile:
		i.Store = store.NewFileStore(cfg.Store.Path)
		return nil
	case config.BackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		i.SQL = conn
		return i.migrateSQL(store.SQLite)
	case config.BackendPostgres:
		conn, pool, err := db.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		i.SQL, i.PG = conn, pool
		return i.migrateSQL(store.Postgres)
	}
	return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func (i *Infra) migrateSQL(dialect store.Dialect) error {
	if err := migrations.NewRunner(i.SQL, dialect).Up(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	i.Store = store.NewSQLStore(i.SQL, dialect)
	return nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.SQL != nil {
		_ = i.SQL.Close()
	}
	if i.PG != nil {
		i.PG.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
}
