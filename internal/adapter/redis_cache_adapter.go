package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-maker/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCacheAdapter keeps cached results as plain Redis strings with a native TTL,
// so entries survive restarts and are shared between instances.
type RedisCacheAdapter struct {
	client redis.Cmdable
}

var _ domain.Cache = (*RedisCacheAdapter)(nil)

func NewRedisCacheAdapter(client redis.Cmdable) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client}
}

func (r *RedisCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Touch uses EXPIRE, or PERSIST for a zero ttl. Both report whether the key existed.
func (r *RedisCacheAdapter) Touch(ctx context.Context, key string, ttl time.Duration) error {
	if ttl > 0 {
		ok, err := r.client.Expire(ctx, key, ttl).Result()
		if err != nil {
			return fmt.Errorf("redis expire %s: %w", key, err)
		}
		if !ok {
			return domain.ErrCacheMiss
		}
		return nil
	}

	// PERSIST is false both for a missing key and for one without a TTL.
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis exists %s: %w", key, err)
	}
	if n == 0 {
		return domain.ErrCacheMiss
	}
	if err := r.client.Persist(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis persist %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
