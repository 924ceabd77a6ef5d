package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/struchkova/konakovo-backend/internal/cache"
	"github.com/struchkova/konakovo-backend/internal/config"
	"github.com/struchkova/konakovo-backend/internal/repo"
	"github.com/struchkova/konakovo-backend/internal/service"
)

// env holds the connections a command needs.
type env struct {
	tx    service.TxRunner
	db    *sql.DB // goose needs database/sql
	cache cache.Cache
	log   *slog.Logger
}

// opener connects to the configured backends. The returned func releases them.
type opener func(ctx context.Context) (*env, func(), error)

// lazyEnv opens the environment on first use so that argument errors are
// reported without touching the database.
type lazyEnv struct {
	open    opener
	env     *env
	release func()
}

func (l *lazyEnv) get(ctx context.Context) (*env, error) {
	if l.env != nil {
		return l.env, nil
	}
	e, release, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	l.env, l.release = e, release
	return e, nil
}

func (l *lazyEnv) close() {
	if l.release != nil {
		l.release()
	}
}

// connect is the production opener.
func connect(ctx context.Context) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)

	release := func() {
		_ = db.Close()
		pool.Close()
	}

	var c cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		client, err := cache.Open(ctx, cfg.RedisURL)
		if err != nil {
			// Seeds still succeed; readers see stale data until the TTL expires.
			logger.WarnContext(ctx, "catalog cache unavailable, skipping invalidation", "error", err)
		} else {
			c = cache.NewRedis(client, "konakovo:", cfg.CacheTTL)
			release = func() {
				_ = client.Close()
				_ = db.Close()
				pool.Close()
			}
		}
	}

	return &env{tx: repo.NewStore(pool), db: db, cache: c, log: logger}, release, nil
}
