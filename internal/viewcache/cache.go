// ABOUTME: Thread-safe TTL and size-bounded cache of per-owner read views
// ABOUTME: Invalidated by content services after each successful mutation

package viewcache

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry stores a value, its insertion time, and its list element.
type cacheEntry[V any] struct {
	value     V
	timestamp time.Time
	element   *list.Element
}

// Cache is a thread-safe, TTL-based, size-limited map from owner ID to a view.
// A doubly-linked list keeps insertion order for O(1) eviction.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry[V]
	order   *list.List        // owner IDs, oldest at front
	gens    map[string]uint64 // bumped by Invalidate
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates a cache. A non-positive ttl or maxSize disables caching: Get always
// misses and Set is a no-op.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]*cacheEntry[V]),
		order:   list.New(),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *Cache[V]) enabled() bool {
	return c.ttl > 0 && c.maxSize > 0
}

// Get returns the cached view for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(entry.timestamp) >= c.ttl {
		c.removeLocked(key, entry)
		return zero, false
	}
	return entry.value, true
}

// Set stores the view for key, evicting expired entries and then the oldest
// entry if the cache is at capacity.
func (c *Cache[V]) Set(key string, value V) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeLocked(key, value)
}

// Generation returns the invalidation counter for key. Pass it to SetIfUnchanged
// after building a view so a write that lands mid-build is not overwritten.
func (c *Cache[V]) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// SetIfUnchanged stores the view only if key has not been invalidated since gen was
// read. It reports whether the value was stored.
func (c *Cache[V]) SetIfUnchanged(key string, gen uint64, value V) bool {
	if !c.enabled() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.storeLocked(key, value)
	return true
}

// storeLocked must be called with mu held.
func (c *Cache[V]) storeLocked(key string, value V) {
	now := c.now()
	if entry, exists := c.entries[key]; exists {
		entry.value = value
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictExpiredLocked(now)
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	elem := c.order.PushBack(key)
	c.entries[key] = &cacheEntry[V]{value: value, timestamp: now, element: elem}
}

// Invalidate drops the view for key and bumps its generation.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[key]++

	if entry, ok := c.entries[key]; ok {
		c.removeLocked(key, entry)
	}
}

// Len returns the number of stored entries, including expired ones not yet dropped.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// removeLocked must be called with mu held.
func (c *Cache[V]) removeLocked(key string, entry *cacheEntry[V]) {
	c.order.Remove(entry.element)
	delete(c.entries, key)
}

// evictOldestLocked removes the oldest entry. Must be called with mu held.
func (c *Cache[V]) evictOldestLocked() {
	front := c.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}

// evictExpiredLocked walks from the oldest entry and stops at the first live one.
// Must be called with mu held.
func (c *Cache[V]) evictExpiredLocked(now time.Time) {
	for front := c.order.Front(); front != nil; front = c.order.Front() {
		key, _ := front.Value.(string)
		entry := c.entries[key]
		if now.Sub(entry.timestamp) < c.ttl {
			return
		}
		c.removeLocked(key, entry)
	}
}
