package cache

import (
	"context"
	"sync"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager is the in-process completion cache: TTL expiry on a cleanup
// ticker plus LRU eviction when full.
type Manager struct {
	cfg   *config.CacheConfig
	mu    sync.RWMutex
	store map[string]cacheEntry
	stats cacheStats
	done  chan struct{}
}

type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager creates the in-memory cache and starts its cleanup loop.
func NewManager(cfg *config.CacheConfig) *Manager {
	m := &Manager{
		cfg:   cfg,
		store: make(map[string]cacheEntry),
		done:  make(chan struct{}),
	}

	go m.startCleanup()

	common.LogInfo("Completion cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Get returns the cached completion for the prompt, if fresh.
func (m *Manager) Get(ctx context.Context, prompt string) (string, bool) {
	key := hashPrompt(prompt)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", false
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		return "", false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++

	common.LogDebug("Completion cache hit", zap.String("key", key))
	return entry.value, true
}

// Set stores a completion, evicting expired then least-used entries
// when the cache is full.
func (m *Manager) Set(ctx context.Context, prompt, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.cfg.MaxSize {
		evicted := m.cleanupLocked()
		if len(m.store) >= m.cfg.MaxSize {
			m.evictLRULocked()
		}
		if evicted > 0 {
			common.LogDebug("Cache cleanup before insert", zap.Int("evicted", evicted))
		}
		if len(m.store) >= m.cfg.MaxSize {
			common.LogWarn("Completion cache full, dropping entry",
				zap.Int("size", len(m.store)),
			)
			return
		}
	}

	now := time.Now()
	m.store[hashPrompt(prompt)] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.cfg.TTL),
		lastAccess: now,
	}
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanupLocked()
			m.mu.Unlock()
			if count > 0 {
				common.LogInfo("Cleaned up expired cache entries",
					zap.Int("count", count),
				)
			}
		case <-m.done:
			return
		}
	}
}

func (m *Manager) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// Stats reports cache counters.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.cfg.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
	}
}

// Close stops the cleanup loop and drops all entries.
func (m *Manager) Close() error {
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)

	common.LogInfo("Completion cache closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
