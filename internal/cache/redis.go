package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-maker/internal/config"
	"quiz-maker/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultDialTimeout = 5 * time.Second

// NewRedisClient connects to the server behind the redis slice store and result cache.
// The connectivity check is bounded by the dial timeout so a wrong address fails start-up fast.
func NewRedisClient(ctx context.Context, redisCfg config.RedisConfig) (*redis.Client, error) {
	opts, err := clientOptions(redisCfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Get().Info("Connected to Redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}

func clientOptions(redisCfg config.RedisConfig) (*redis.Options, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}

	var opts *redis.Options
	if strings.HasPrefix(redisCfg.Address, "redis://") || strings.HasPrefix(redisCfg.Address, "rediss://") {
		parsed, err := redis.ParseURL(redisCfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     redisCfg.Address,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}
	}

	if redisCfg.PoolSize > 0 {
		opts.PoolSize = redisCfg.PoolSize
	}
	opts.DialTimeout = redisCfg.DialTimeout
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	return opts, nil
}
