package pipeline

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type cacheEntry[V any] struct {
	value V
	used  uint64
}

// docCache is a size-bounded store on top of go-cache. When full, the entry
// touched longest ago is dropped; entries idle past ttl expire on their own.
// Values are handed out as stored; callers must not modify them.
type docCache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    *gocache.Cache
	clock    uint64

	hits   uint64
	misses uint64
}

// newDocCache keeps up to capacity values. A ttl of zero never expires them.
func newDocCache[V any](capacity int, ttl time.Duration) *docCache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}
	return &docCache[V]{
		capacity: capacity,
		items:    gocache.New(expiration, cleanup),
	}
}

// Get returns the value under key. A stored value that valid rejects counts
// as a miss, so a hash collision does not inflate the hit count.
func (c *docCache[V]) Get(key string, valid func(V) bool) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	raw, ok := c.items.Get(key)
	if !ok {
		c.misses++
		return zero, false
	}
	entry, ok := raw.(*cacheEntry[V])
	if !ok || (valid != nil && !valid(entry.value)) {
		c.misses++
		return zero, false
	}
	c.hits++
	c.clock++
	entry.used = c.clock
	// Re-set to push the expiration out again.
	c.items.SetDefault(key, entry)
	return entry.value, true
}

func (c *docCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	if _, found := c.items.Get(key); !found {
		c.items.DeleteExpired()
		for c.items.ItemCount() >= c.capacity {
			if !c.evictOldest() {
				break
			}
		}
	}
	c.items.SetDefault(key, &cacheEntry[V]{value: value, used: c.clock})
}

func (c *docCache[V]) evictOldest() bool {
	oldest, stamp := "", uint64(0)
	for key, item := range c.items.Items() {
		entry, ok := item.Object.(*cacheEntry[V])
		if !ok {
			c.items.Delete(key)
			return true
		}
		if oldest == "" || entry.used < stamp {
			oldest, stamp = key, entry.used
		}
	}
	if oldest == "" {
		return false
	}
	c.items.Delete(oldest)
	return true
}

func (c *docCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Flush()
}

func (c *docCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.ItemCount()
}

func (c *docCache[V]) stats() (hits uint64, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
