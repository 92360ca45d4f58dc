package handoff

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"customer-onboarding/internal/config"
)

// Open returns a Redis store when cfg names a server and a Memory store otherwise.
// The returned close function releases the client.
func Open(ctx context.Context, cfg config.RedisConfig, session string, ttl time.Duration) (Store, func() error, error) {
	if cfg.Addr == "" {
		return NewMemory(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return NewRedis(client, session, ttl), client.Close, nil
}
