package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a small TTL cache for hot lookups (customer directory, form
// option lists). Single-process only.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache whose entries expire after defaultTTL; expired
// entries are swept every cleanupInterval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value any) {
	c.store.SetDefault(key, value)
}

func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}
