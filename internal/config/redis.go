package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

// SetupRedis connects to the player cache described by cfg and verifies the
// connection with a PING. Callers only invoke it when the cache is enabled.
func SetupRedis(cfg *CacheConfig, logger *slog.Logger) (*redis.Client, error) {
	if cfg == nil {
		return nil, errors.New("cache config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache.url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("cache connected",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
		slog.Int("pool_size", opts.PoolSize),
		slog.Duration("ttl", cfg.TTLDuration()),
	)

	return client, nil
}
