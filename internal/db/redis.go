package db

import (
	"context"
	"errors"
	"fmt"

	"ctchen222/tictak/internal/config"

	"github.com/go-redis/redis/v8"
)

// ErrRedisDisabled is returned when no Redis address is configured.
var ErrRedisDisabled = errors.New("redis disabled")

// NewRedisClient creates and returns a new Redis client for the configured address.
// It returns ErrRedisDisabled when the address is empty.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrRedisDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// Ping the server to ensure the connection is established.
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
