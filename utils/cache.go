package utils

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IndexPagePrefix namespaces cached renders of the global feed.
const IndexPagePrefix = "cache:index_page:"

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// ResponseCache stores rendered response bodies for a fixed TTL. Entries are only ever
// removed by expiry or Clear; writes elsewhere never invalidate them.
// Redis is used when a client is given, otherwise a process-local map.
type ResponseCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewResponseCache creates a cache whose keys all start with prefix.
func NewResponseCache(rc *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		rc:      rc,
		prefix:  prefix,
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

// TTL reports how long entries live.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached body for key.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	full := c.prefix + key
	if c.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := c.rc.Get(ctx, full).Bytes()
		if err != nil {
			if err != redis.Nil {
				Sugar.Warnf("cache get failed key=%s err=%v", full, err)
			}
			return nil, false
		}
		return b, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[full]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, full)
		return nil, false
	}
	return entry.body, true
}

// Set stores body under key for the cache TTL.
func (c *ResponseCache) Set(key string, body []byte) {
	full := c.prefix + key
	if c.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.rc.Set(ctx, full, body, c.ttl).Err(); err != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", full, err)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[full] = cacheEntry{body: append([]byte(nil), body...), expiresAt: now.Add(c.ttl)}
}

// Clear drops every entry under the cache prefix.
func (c *ResponseCache) Clear() {
	if c.rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		var cursor uint64
		for {
			keys, cur, err := c.rc.Scan(ctx, cursor, c.prefix+"*", 1000).Result()
			if err != nil {
				Sugar.Warnf("cache clear scan failed prefix=%s err=%v", c.prefix, err)
				return
			}
			if len(keys) > 0 {
				pipe := c.rc.Pipeline()
				for _, k := range keys {
					pipe.Del(ctx, k)
				}
				_, _ = pipe.Exec(ctx)
			}
			cursor = cur
			if cursor == 0 {
				return
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, c.prefix) {
			delete(c.entries, k)
		}
	}
}
