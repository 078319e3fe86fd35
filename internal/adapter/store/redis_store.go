package store

import (
	"context"
	"errors"
	"fmt"

	"quiz-maker/internal/cache"
	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps each slice in a string key and announces saves over pub/sub, so
// subscribers in every process sharing the server see each write.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

var _ domain.Store = (*RedisStore)(nil)

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, cache.SliceKey(r.prefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSliceNotFound
		}
		return nil, fmt.Errorf("failed to load slice %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, cache.SliceKey(r.prefix, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slice %s: %w", key, err)
	}
	// The write already succeeded; a lost notification only delays other subscribers.
	if err := r.client.Publish(ctx, cache.SliceUpdatesChannel(r.prefix, key), value).Err(); err != nil {
		logger.Get().Warn("Failed to publish slice update", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (r *RedisStore) Subscribe(ctx context.Context, key string, fn func([]byte)) error {
	pubsub := r.client.Subscribe(ctx, cache.SliceUpdatesChannel(r.prefix, key))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to slice %s: %w", key, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn([]byte(msg.Payload))
			}
		}
	}()
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
