package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/foliopress/foliopress-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent, expired, the cache is
// disabled, or Redis is unreachable. A stored empty value is not a miss.
var ErrMiss = errors.New("cache miss")

// TTL constants
const (
	TTLDefault = 5 * time.Minute  // fallback when no TTL given
	TTLContent = 10 * time.Minute // rendered content pages
	TTLListing = 1 * time.Minute  // content listings (change often)
	TTLShort   = 30 * time.Second // short-lived lookups
)

// Cache key prefixes
const (
	PrefixContent = "content:"
	PrefixListing = "content:list:"
)

// opTimeout bounds every Redis round trip so a stalled cache tier can never
// block a content mutation.
const opTimeout = 500 * time.Millisecond

// Service Redis cache service interface. Every method degrades to a miss or
// no-op on cache failure; errors never propagate past this boundary except
// as ErrMiss.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePrefix(ctx context.Context, prefix string) error

	// Content cache helpers
	GetContentPage(ctx context.Context, kind, slug string, rev int64, page int, dest interface{}) error
	SetContentPage(ctx context.Context, kind, slug string, rev int64, page int, value interface{}) error
	InvalidateContent(ctx context.Context, kind, slug string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client     *redis.Client
	enabled    func(ctx context.Context) bool
	defaultTTL time.Duration
}

// NewService creates a cache service. enabled is consulted on every
// operation; when it reports false the cache is bypassed entirely (every
// Get misses, writes are no-ops). A nil enabled func means always on.
// defaultTTL applies to Set calls without an explicit TTL; zero or
// negative falls back to TTLDefault.
func NewService(client *redis.Client, enabled func(ctx context.Context) bool, defaultTTL time.Duration) Service {
	if enabled == nil {
		enabled = func(context.Context) bool { return true }
	}
	if defaultTTL <= 0 {
		defaultTTL = TTLDefault
	}
	return &redisCache{client: client, enabled: enabled, defaultTTL: defaultTTL}
}

// ContentPageKey builds the cache key for one rendered page of a content
// item. The updated-at revision in the key makes stale entries unreachable
// after a write even if explicit invalidation is delayed.
func ContentPageKey(kind, slug string, rev int64, page int) string {
	return fmt.Sprintf("%s%s:%s:%d:page:%d", PrefixContent, kind, slug, rev, page)
}

// ContentPrefix is the invalidation prefix covering every cached page and
// revision of one content item.
func ContentPrefix(kind, slug string) string {
	return fmt.Sprintf("%s%s:%s:", PrefixContent, kind, slug)
}

// ListingKey builds the cache key for a filtered content listing.
func ListingKey(kind, status string, limit, offset int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", PrefixListing, kind, status, limit, offset)
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil || !c.enabled(ctx) {
		return ErrMiss
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return ErrMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.GetLogger().Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return ErrMiss
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil || !c.enabled(ctx) {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.GetLogger().Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("cache invalidate failed")
	}
	return nil
}

// InvalidatePrefix removes every key under prefix via SCAN+DEL. Invalidation
// ignores the enabled flag: a disabled cache may still hold entries from
// before the flag flipped.
func (c *redisCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	if c.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.GetLogger().Warn().Err(err).Str("prefix", prefix).Msg("cache scan failed")
		return nil
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Warn().Err(err).Str("prefix", prefix).Msg("cache invalidate failed")
	}
	return nil
}

func (c *redisCache) GetContentPage(ctx context.Context, kind, slug string, rev int64, page int, dest interface{}) error {
	return c.Get(ctx, ContentPageKey(kind, slug, rev, page), dest)
}

func (c *redisCache) SetContentPage(ctx context.Context, kind, slug string, rev int64, page int, value interface{}) error {
	return c.Set(ctx, ContentPageKey(kind, slug, rev, page), value, TTLContent)
}

func (c *redisCache) InvalidateContent(ctx context.Context, kind, slug string) error {
	if err := c.InvalidatePrefix(ctx, ContentPrefix(kind, slug)); err != nil {
		return err
	}
	// listings for the kind reference the mutated row too
	return c.InvalidatePrefix(ctx, PrefixListing+kind+":")
}
