// Package cache connects to the Redis instance backing the activity stream.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campusboard/api/internal/config"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// Checker adapts a client to the health check interface.
type Checker struct {
	client *redis.Client
}

func NewChecker(client *redis.Client) Checker {
	return Checker{client: client}
}

func (c Checker) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
