package cache

import (
	"context"
	"fmt"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore backs the completion cache with Redis so cache hits
// survive restarts and are shared between instances.
type RedisStore struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	common.LogInfo("Redis completion cache connected",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.TTL),
	)

	return &RedisStore{client: client, cfg: cfg}, nil
}

// Get returns the cached completion for the prompt, if present. Backend
// failures degrade to a miss.
func (s *RedisStore) Get(ctx context.Context, prompt string) (string, bool) {
	val, err := s.client.Get(ctx, hashPrompt(prompt)).Result()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis cache read failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores a completion with the configured TTL. Failures are logged
// and ignored; the cache is an optimization, not a dependency.
func (s *RedisStore) Set(ctx context.Context, prompt, value string) {
	if err := s.client.Set(ctx, hashPrompt(prompt), value, s.cfg.TTL).Err(); err != nil {
		common.LogWarn("Redis cache write failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
