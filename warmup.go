package cachecore

import (
	"sync"
	"time"
)

// WarmUp bulk-inserts entries with a shared ttl (0 = default TTL).
func (c *Cache[V]) WarmUp(entries map[string]V, ttl time.Duration) {
	for k, v := range entries {
		c.Set(k, v, ttl)
	}
}

// WarmUpAsync loads every key in parallel via loader and stores
// whatever succeeds; a failed load is skipped rather than aborting
// the whole batch, so one bad key doesn't block the rest from
// warming.
func (c *Cache[V]) WarmUpAsync(keys []string, loader func(key string) (V, error), ttl time.Duration) {
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			v, err := loader(key)
			if err != nil {
				return
			}
			c.Set(key, v, ttl)
		}(k)
	}
	wg.Wait()
}
