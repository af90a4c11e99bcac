// file: internal/cache/cache.go
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is the caching abstraction used by services and middleware
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Increment atomically bumps a counter, setting the TTL on first write.
	// Used for login attempt tracking.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Close() error
}

// New returns a Redis-backed cache when a URL is configured, otherwise an
// in-process memory cache. Both satisfy the same interface so callers never care.
func New(redisURL string, logger *zap.Logger) (Cache, error) {
	if redisURL == "" {
		logger.Info("No REDIS_URL configured, using in-memory cache")
		return NewMemoryCache(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory cache", zap.Error(err))
		return NewMemoryCache(), nil
	}

	logger.Info("Redis cache connected")
	return &redisCache{client: client, logger: logger}, nil
}

// ===============================
// REDIS IMPLEMENTATION
// ===============================

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// ===============================
// MEMORY IMPLEMENTATION
// ===============================

type memoryEntry struct {
	value     []byte
	counter   int64
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryCache returns a process-local cache suitable for tests and
// single-instance deployments
func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]*memoryEntry)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || entry.expired() {
		return nil, false
	}
	return entry.value, true
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &memoryEntry{value: value, expiresAt: expiry(ttl)}
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || entry.expired() {
		entry = &memoryEntry{expiresAt: expiry(ttl)}
		c.entries[key] = entry
	}
	entry.counter++
	// Keep Get consistent with Redis, where INCR values read back as strings
	entry.value = strconv.AppendInt(nil, entry.counter, 10)
	return entry.counter, nil
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	return nil
}

func (e *memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
