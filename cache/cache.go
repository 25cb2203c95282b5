package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	cache *cache.Cache
}

// New creates a cache whose entries expire after ttl. A non-positive ttl keeps entries forever.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &Cache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cache) GetString(key string) (string, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c *Cache) SetDefault(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}
