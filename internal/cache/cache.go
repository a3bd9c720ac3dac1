// Package cache holds fetched article lists keyed by user and preference set.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newsbrief/newsbrief/internal/model"
)

type entry struct {
	articles []model.Article
	at       time.Time
}

// Cache is an in-memory TTL cache for article lists. Staleness is checked
// lazily on Get; stale entries stay in the map until overwritten. There is no
// eviction or size bound, keys are bounded by the distinct (user, preference
// set) pairs the process serves.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached articles for key if present and fresh.
func (c *Cache) Get(key string) ([]model.Article, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		return nil, false
	}
	return e.articles, true
}

// Put inserts or overwrites the entry for key with the current timestamp.
func (c *Cache) Put(key string, articles []model.Article) {
	c.mu.Lock()
	c.items[key] = entry{articles: articles, at: c.now()}
	c.mu.Unlock()
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Key builds the composite cache key for a user and their normalized
// preferences. Preferences are sorted on a copy so two orderings of the same
// set collide to the same key.
func Key(userID string, preferences []string) string {
	sorted := make([]string, len(preferences))
	copy(sorted, preferences)
	sort.Strings(sorted)
	return "news:" + userID + ":" + strings.Join(sorted, "|")
}
