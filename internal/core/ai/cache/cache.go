// Package cache stores raw completions keyed by prompt so identical
// generation requests inside the TTL skip the provider round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"pantry-chef/internal/infrastructure/config"
)

// Store is the completion cache interface. Get returns (value, true) on
// a hit; misses and backend failures both read as (_, false).
type Store interface {
	Get(ctx context.Context, prompt string) (string, bool)
	Set(ctx context.Context, prompt, value string)
	Close() error
}

// NewStore picks the backend from config: Redis when an address is
// configured, the in-process manager otherwise, nil when disabled.
func NewStore(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.RedisAddr != "" {
		return NewRedisStore(&cfg.Cache)
	}
	return NewManager(&cfg.Cache), nil
}

// hashPrompt derives the cache key from the prompt text.
func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "completion:" + hex.EncodeToString(sum[:])
}
