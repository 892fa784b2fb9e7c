// Package cache provides a small thread-safe LRU cache with optional entry expiry.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// LRU is a bounded cache that evicts the least recently used entry once it
// holds more than maxEntries values. Entries older than ttl are treated as
// absent; a zero ttl disables expiry.
type LRU[V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	order   *list.List // front = most recently used
	entries map[string]*list.Element
}

type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
}

// New creates an LRU. A nil clock uses real time.
func New[V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *LRU[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &LRU[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns the value stored under key and marks it recently used.
// Expired entries are dropped on access.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if c.expired(e) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Put stores value under key, replacing any previous value and resetting its age.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.storedAt = now
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry[V]{key: key, value: value, storedAt: now})
	for len(c.entries) > c.maxEntries {
		c.removeElement(c.order.Back())
	}
}

// Len reports the number of stored entries, including any not yet found expired.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && c.clock.Since(e.storedAt) >= c.ttl
}

func (c *LRU[V]) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.entries, e.key)
}
