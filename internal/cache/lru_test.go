package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetMiss(t *testing.T) {
	c := New[int](2, 0, nil)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestLRU_PutAndGet(t *testing.T) {
	c := New[string](2, 0, nil)
	c.Put("a", "alpha")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)
}

func TestLRU_Eviction(t *testing.T) {
	c := New[int](2, 0, nil)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "a should be evicted")
	assert.Equal(t, 2, c.Len())
}

func TestLRU_AccessRefreshesRecency(t *testing.T) {
	c := New[int](2, 0, nil)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.True(t, ok, "a was used most recently")
	_, ok = c.Get("b")
	assert.False(t, ok, "b should be evicted")
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := New[int](2, 0, nil)
	c.Put("a", 1)
	c.Put("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	c := New[int](4, 6*time.Hour, clock)
	c.Put("a", 1)

	clock.Advance(5*time.Hour + 59*time.Minute)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry at ttl should be expired")
	assert.Equal(t, 0, c.Len())
}

func TestLRU_PutResetsAge(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New[int](4, time.Hour, clock)
	c.Put("a", 1)
	clock.Advance(50 * time.Minute)
	c.Put("a", 2)
	clock.Advance(50 * time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := New[int](16, 0, nil)
	done := make(chan struct{})
	for g := range 4 {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range 100 {
				key := fmt.Sprintf("%d-%d", g, i%8)
				c.Put(key, i)
				c.Get(key)
			}
		}()
	}
	for range 4 {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 16)
}
