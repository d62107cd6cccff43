package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect creates a Redis client and verifies it with a ping.
func Connect(cfg Config) (*goredis.Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// TTL returns the configured cache lifetime.
func (c Config) TTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// IsMiss reports whether err is the "key does not exist" reply.
func IsMiss(err error) bool {
	return errors.Is(err, goredis.Nil)
}
