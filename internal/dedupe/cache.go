// Package dedupe suppresses repeated lookups of the same company within a
// time window.
package dedupe

import (
	"sync"
	"time"
)

type entry struct {
	key string
	ts  time.Time
}

// Cache remembers a bounded number of recently claimed keys.
type Cache struct {
	mu       sync.Mutex
	items    map[string]time.Time
	values   map[string][]byte
	order    []entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		items:    make(map[string]time.Time, capacity),
		values:   make(map[string][]byte),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Claim records key and returns true if it was not already claimed inside the
// ttl window. Check and record happen under one lock, so two concurrent
// callers with the same key cannot both win.
func (c *Cache) Claim(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if ts, ok := c.items[key]; ok && now.Sub(ts) <= c.ttl {
		return false
	}

	c.items[key] = now
	delete(c.values, key)
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
	return true
}

// Release forgets key so the next Claim succeeds. Used when the work guarded
// by a claim failed and should be retried.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	delete(c.values, key)
}

// Store attaches the outcome of the work guarded by key. It is a no-op when
// key is not currently claimed.
func (c *Cache) Store(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		c.values[key] = value
	}
}

// Value returns what was stored for a live claim on key. It reports false
// while the claimed work is still in flight or after the claim expired.
func (c *Cache) Value(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts, ok := c.items[key]
	if !ok || c.now().Sub(ts) > c.ttl {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Len reports the number of keys currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		// a key claimed again later has a newer timestamp; keep that one
		if ts, ok := c.items[oldest.key]; ok && ts.Equal(oldest.ts) {
			delete(c.items, oldest.key)
			delete(c.values, oldest.key)
		}
	}
}
