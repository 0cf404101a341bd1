package search

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of distinct cache keys retained.
const DefaultCacheSize = 10000

// DefaultCacheTTL is applied when Set is called without an explicit ttl.
const DefaultCacheTTL = 1 * time.Hour

// cacheEntry pairs a cached SearchResponse with its absolute expiry.
type cacheEntry struct {
	value    *SearchResponse
	expireAt time.Time
}

// Cache is a bounded, TTL-aware store for adapter search responses, keyed by
// CacheKey(adapterID, params). It never blocks on I/O and never returns an
// error: a cache failure degrades to a miss.
type Cache struct {
	mu    sync.RWMutex
	lru   *lru.Cache[string, cacheEntry]
	clock func() time.Time
}

// NewCache creates a cache bounded to size entries (DefaultCacheSize if <= 0).
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	backing, _ := lru.New[string, cacheEntry](size)
	return &Cache{lru: backing, clock: time.Now}
}

// CacheKey derives the external cache key for one adapter call.
// Format: search:{adapterId}:{q}:{maxResults}:{country|"any"}:{language|"any"}.
func CacheKey(adapterID string, p QueryParams) string {
	country := p.Country
	if country == "" {
		country = "any"
	}
	language := p.Language
	if language == "" {
		language = "any"
	}
	return fmt.Sprintf("search:%s:%s:%d:%s:%s", adapterID, p.Q, p.MaxResults, country, language)
}

// Get returns the cached response for key if present and unexpired. A miss
// (including an expired entry, which is evicted) returns (nil, false).
func (c *Cache) Get(key string) (*SearchResponse, bool) {
	c.mu.RLock()
	entry, ok := c.lru.Get(key)
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock().After(entry.expireAt) {
		c.mu.Lock()
		c.lru.Remove(key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set inserts or overwrites key with the default TTL.
func (c *Cache) Set(key string, value *SearchResponse) {
	c.SetTTL(key, value, DefaultCacheTTL)
}

// SetTTL inserts or overwrites key, expiring ttl after now. Concurrent
// set calls for the same key race harmlessly: the last writer wins.
func (c *Cache) SetTTL(key string, value *SearchResponse, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry{value: value, expireAt: c.clock().Add(ttl)})
}

// RemoveExpired sweeps every entry and evicts those past expiry.
func (c *Cache) RemoveExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if ok && now.After(entry.expireAt) {
			c.lru.Remove(key)
		}
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}
