package scraper

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/cc-courses/internal/logger"
)

// DefaultCacheTTL is how long a fetched table is served before refetching.
const DefaultCacheTTL = 5 * time.Minute

// Cache wraps a TableFetcher with a TTL and collapses concurrent misses into
// one upstream request. Errors are never cached.
type Cache struct {
	fetcher TableFetcher
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	html     string
	cachedAt time.Time
	valid    bool

	group singleflight.Group
}

// NewCache creates a cache in front of fetcher. A ttl of zero disables caching
// but still deduplicates concurrent fetches.
func NewCache(fetcher TableFetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Fetch returns the cached table if still fresh, otherwise fetches it.
func (c *Cache) Fetch(ctx context.Context) (string, error) {
	if html, ok := c.get(); ok {
		logger.IncrCounter("scraper.cache_hit")
		return html, nil
	}
	logger.IncrCounter("scraper.cache_miss")

	v, err, shared := c.group.Do("table", func() (interface{}, error) {
		// A flight that finished between get() and Do() already filled the cache.
		if html, ok := c.get(); ok {
			return html, nil
		}
		html, err := c.fetcher.Fetch(ctx)
		if err != nil {
			return "", err
		}
		c.set(html)
		return html, nil
	})
	if shared {
		logger.IncrCounter("scraper.fetch_shared")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached table.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.html = ""
}

func (c *Cache) get() (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || c.now().Sub(c.cachedAt) > c.ttl {
		return "", false
	}
	return c.html, true
}

func (c *Cache) set(html string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.html = html
	c.cachedAt = c.now()
	c.valid = true
}
