package cache

import "sync"

// Stats counts cache lookups for diagnostics
type Stats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// SummaryCache memoizes summary generation per abstract for one pipeline run.
// Construct one per run and pass it to the components that need it.
type SummaryCache struct {
	store Cache
	mu    sync.Mutex
	stats Stats
}

// NewSummaryCache creates a run-scoped summary cache.
// A nil store defaults to a fresh MemoryCache.
func NewSummaryCache(store Cache) *SummaryCache {
	if store == nil {
		store = NewMemoryCache()
	}
	return &SummaryCache{store: store}
}

// GetOrCompute returns the stored summary for abstract, or calls compute,
// stores its result, and returns it. compute runs at most once per key.
func (c *SummaryCache) GetOrCompute(abstract string, compute func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := CacheKey(abstract)
	if val, found := c.store.Get(key); found {
		c.stats.Hits++
		return val
	}

	c.stats.Misses++
	val := compute()
	c.store.Set(key, val)
	return val
}

// Len returns the number of memoized abstracts
func (c *SummaryCache) Len() int {
	return c.store.Len()
}

// Stats returns hit/miss counters
func (c *SummaryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
