// Package optimistic applies user mutations to a local cache before the
// server confirms them, and restores the prior value when it does not.
package optimistic

import "sync"

// Cache is a keyed value store shared by background refetches and
// optimistic mutations. It is safe for concurrent use.
type Cache[V any] struct {
	mu        sync.RWMutex
	entries   map[string]V
	suspended map[string]int
}

// NewCache creates an empty cache
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		entries:   make(map[string]V),
		suspended: make(map[string]int),
	}
}

// Get returns the cached value for key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set writes v unconditionally
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Delete removes key
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Refresh stores a value fetched in the background. It is dropped while
// the key is suspended so a stale read cannot clobber a pending mutation.
func (c *Cache[V]) Refresh(key string, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended[key] > 0 {
		return false
	}
	c.entries[key] = v
	return true
}

// Suspend pauses background refreshes of key. Calls nest.
func (c *Cache[V]) Suspend(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspended[key]++
}

// Resume undoes one Suspend
func (c *Cache[V]) Resume(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended[key] <= 1 {
		delete(c.suspended, key)
		return
	}
	c.suspended[key]--
}

// Suspended reports whether refreshes of key are paused
func (c *Cache[V]) Suspended(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.suspended[key] > 0
}
