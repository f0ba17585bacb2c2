package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an unbounded in-process store with no expiration.
// Entries live until the cache is dropped at the end of the run.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache with no TTL and no janitor
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

// Set stores a value in the cache
func (c *MemoryCache) Set(key string, value string) {
	c.cache.Set(key, value, gocache.NoExpiration)
}

// Len returns the number of stored entries
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
