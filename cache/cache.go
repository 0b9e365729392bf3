package cache

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"datadeck/models"
)

// CachedAnswer is the pre-AI portion of a question's answer. AI-derived
// analysis and visualization are regenerated on every request and never
// stored here.
type CachedAnswer struct {
	SQL         string
	GenieAnswer string
	Results     *models.QueryResults
	CreatedAt   time.Time
}

// ResultCache is a bounded, time-expiring store of answered questions,
// keyed by normalized question text. A single mutex serializes all reads
// and writes; operations are O(n) at worst (capacity eviction) and brief,
// so coarse locking is not a bottleneck.
type ResultCache struct {
	mu         sync.Mutex
	store      *gocache.Cache
	maxEntries int
	enabled    bool
}

// New creates a ResultCache holding at most maxEntries live entries, each
// expiring ttl after insertion. When enabled is false every Get is a miss
// and every Put is a no-op.
func New(maxEntries int, ttl time.Duration, enabled bool) *ResultCache {
	return &ResultCache{
		store:      gocache.New(ttl, 2*ttl),
		maxEntries: maxEntries,
		enabled:    enabled,
	}
}

// NormalizeKey maps questions differing only by case or surrounding
// whitespace to the same cache entry.
func NormalizeKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Get returns the cached answer for a question, or false on a miss.
// Expired entries behave exactly like never-cached ones.
func (c *ResultCache) Get(question string) (*CachedAnswer, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.store.Get(NormalizeKey(question))
	if !ok {
		return nil, false
	}
	return v.(*CachedAnswer), true
}

// Put stores an answer under the normalized question key, evicting the
// oldest live entry first if the cache is at capacity.
func (c *ResultCache) Put(question string, answer *CachedAnswer) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := NormalizeKey(question)
	if _, exists := c.store.Get(key); !exists && c.liveCount() >= c.maxEntries {
		c.evictOldest()
	}
	c.store.SetDefault(key, answer)
}

// Len reports the number of live entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveCount()
}

// liveCount counts unexpired entries. Items() already filters expired ones,
// unlike ItemCount which includes entries awaiting janitor cleanup.
func (c *ResultCache) liveCount() int {
	return len(c.store.Items())
}

func (c *ResultCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, item := range c.store.Items() {
		answer := item.Object.(*CachedAnswer)
		if oldestKey == "" || answer.CreatedAt.Before(oldest) {
			oldestKey = key
			oldest = answer.CreatedAt
		}
	}
	if oldestKey != "" {
		c.store.Delete(oldestKey)
	}
}
