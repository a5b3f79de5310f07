// Package cache provides the in-memory TTL cache that holds computed
// forecast responses between writes. Staleness after a write is
// handled above this package: the services bump a per-user generation
// that is part of the cache key, so this cache only ever needs to
// expire, never to invalidate.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	val      T
	deadline time.Time
}

// InMemory is a concurrency-safe cache whose entries all share one
// TTL, fixed at construction.
type InMemory[T any] struct {
	mu   sync.RWMutex
	data map[string]item[T]
	ttl  time.Duration
}

// New creates a cache and starts its sweeper goroutine.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		data: make(map[string]item[T]),
		ttl:  ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, or false when the key is
// absent or past its deadline. An expired entry is a miss even before
// the sweeper has collected it.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.data[key]
	if !ok || time.Now().After(it.deadline) {
		var zero T
		return zero, false
	}
	return it.val, true
}

// Set stores value under key with a fresh deadline, replacing any
// previous entry.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = item[T]{
		val:      value,
		deadline: time.Now().Add(c.ttl),
	}
}

// Delete drops the entry for key, if present.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// sweep collects expired entries so abandoned keys (logged-out users,
// one-off horizon queries) do not pin memory for the process lifetime.
func (c *InMemory[T]) sweep() {
	interval := c.ttl
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.data {
			if now.After(it.deadline) {
				delete(c.data, k)
			}
		}
		c.mu.Unlock()
	}
}
