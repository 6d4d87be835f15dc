package youtube

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a two-tier store of fetch results: L1 in memory, L2 in Redis
// when a Redis URL is configured.
type Cache struct {
	l1         sync.Map      // key -> *cacheEntry
	rdb        *redis.Client // nil if Redis unavailable
	ttl        time.Duration
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache returns a cache with the given TTL. redisURL can be empty to
// disable L2; an unreachable Redis also disables L2 with a warning.
func NewCache(ctx context.Context, redisURL string, ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{ttl: ttl, maxEntries: maxEntries}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
				rdb.Close()
			} else {
				c.rdb = rdb
				slog.Debug("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	return c
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("yt:%x", hash[:12])
}

// Get tries L1, then L2. An L2 hit populates L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			c.hits.Add(1)
			return entry.data, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			c.hits.Add(1)
			c.l1.Store(key, &cacheEntry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return data, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores data in both tiers.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	c.evictIfNeeded()

	c.l1.Store(key, &cacheEntry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// evictIfNeeded drops expired entries, then the oldest ones, until L1 has
// room for one more entry.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := now.Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

// Cached wraps a Fetcher and memoizes successful Fetch results.
type Cached struct {
	Fetcher
	cache *Cache
}

// NewCached returns f backed by cache.
func NewCached(f Fetcher, cache *Cache) *Cached {
	return &Cached{Fetcher: f, cache: cache}
}

// Fetch returns a cached result when present, otherwise delegates and stores
// the result. Results without captions are not cached.
func (c *Cached) Fetch(ctx context.Context, ref string, opts FetchOptions) (*FetchResult, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}
	key := Key("fetch", id, opts.Language, strconv.FormatBool(opts.AutoGenerated), strconv.FormatBool(IsShortsURL(ref)))

	if data, ok := c.cache.Get(ctx, key); ok {
		var res FetchResult
		if json.Unmarshal(data, &res) == nil {
			slog.Debug("cache hit", "video", id)
			return &res, nil
		}
	}

	res, err := c.Fetcher.Fetch(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	if res.Captions != "" {
		if data, err := json.Marshal(res); err == nil {
			c.cache.Set(ctx, key, data)
		}
	}
	return res, nil
}
