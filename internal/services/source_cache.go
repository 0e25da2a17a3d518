package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultSourceCacheTTL bounds how long an upstream response is reused.
const DefaultSourceCacheTTL = 5 * time.Minute

type cacheEntry struct {
	expiresAt time.Time
	value     []byte
}

// MemorySourceCache is a process-local key -> (expiry, value) map.
// Expired entries are evicted when they are read.
type MemorySourceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemorySourceCache(ttl time.Duration) *MemorySourceCache {
	if ttl <= 0 {
		ttl = DefaultSourceCacheTTL
	}
	return &MemorySourceCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *MemorySourceCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemorySourceCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{expiresAt: c.now().Add(c.ttl), value: value}
}

// Len reports the number of stored entries, expired ones included.
func (c *MemorySourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisSourceCache shares upstream responses between service instances.
// Redis errors degrade to cache misses.
type RedisSourceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSourceCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSourceCache {
	if ttl <= 0 {
		ttl = DefaultSourceCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSourceCache{client: client, prefix: "monitorcrypto:source:", ttl: ttl, logger: logger}
}

func (c *RedisSourceCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("source cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

func (c *RedisSourceCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("source cache set failed", zap.String("key", key), zap.Error(err))
	}
}
