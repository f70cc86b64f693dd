// Package cache is a small bounded cache for values that are expensive to
// compute and are looked up by a small, repetitive key space, such as the
// binomial quantiles the attrition heuristic asks for on every pick.
//
// Eviction is least-recently-used: once the cache holds its capacity,
// loading a new key drops the key that was read or loaded longest ago.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Cache maps keys to values, loading missing keys on demand.
type Cache[K comparable, V any] struct {
	sync.Mutex
	objects *lru.Cache[K, V]

	loads int
	hits  int
}

// LoadFunc computes the value for a key that is not cached.
type LoadFunc[K comparable, V any] func(key K) (V, error)

// New returns a cache holding at most capacity entries. A capacity below
// one is treated as one.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	objects, err := lru.New[K, V](capacity)
	if err != nil {
		// Only a non-positive size fails.
		panic(err)
	}
	return &Cache[K, V]{objects: objects}
}

// Get returns the cached value for key, calling load on a miss. Failed
// loads are not cached.
func (c *Cache[K, V]) Get(key K, load LoadFunc[K, V]) (V, error) {
	c.Lock()
	defer c.Unlock()
	if val, ok := c.objects.Get(key); ok {
		c.hits++
		return val, nil
	}
	log.Debug().Interface("key", key).Msg("loading into cache")
	val, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.loads++
	c.objects.Add(key, val)
	return val, nil
}

func (c *Cache[K, V]) Len() int {
	return c.objects.Len()
}

// Loads is the number of successful loads, i.e. cache misses.
func (c *Cache[K, V]) Loads() int {
	c.Lock()
	defer c.Unlock()
	return c.loads
}

func (c *Cache[K, V]) Hits() int {
	c.Lock()
	defer c.Unlock()
	return c.hits
}
