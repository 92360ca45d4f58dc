package handoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores handoff values under a per-session key prefix so that several operator
// sessions can share one server.
type Redis struct {
	client  redis.UniversalClient
	session string
	ttl     time.Duration
}

// NewRedis returns a Store for session. A zero ttl keeps values until cleared.
func NewRedis(client redis.UniversalClient, session string, ttl time.Duration) *Redis {
	return &Redis{client: client, session: session, ttl: ttl}
}

func (r *Redis) key(k string) string {
	return fmt.Sprintf("onboarding:handoff:%s:%s", r.session, k)
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && v == "") {
		return "", ErrNotSet
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
