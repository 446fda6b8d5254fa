// Package db opens the optional backing stores. Each store is enabled by its
// URL; an empty URL leaves the corresponding field nil.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Connections holds whichever stores were configured.
type Connections struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
}

// Open connects to every configured store and pings it. A store that is
// configured but unreachable is an error; the caller decides whether that is
// fatal.
func Open(ctx context.Context, databaseURL, redisURL string, logger *zap.Logger) (*Connections, error) {
	logger = logger.Named("db")
	conns := &Connections{}

	if databaseURL == "" {
		logger.Info("DATABASE_URL not set, application tracker disabled")
	} else {
		pool, err := openPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		conns.Postgres = pool
		logger.Info("postgres connected")
	}

	if redisURL == "" {
		logger.Info("REDIS_URL not set, geocode cache and tracker events disabled")
	} else {
		client, err := openRedis(ctx, redisURL)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Redis = client
		logger.Info("redis connected")
	}

	return conns, nil
}

// Close releases every open store. It is safe on a partially opened set.
func (c *Connections) Close() {
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

func openPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
