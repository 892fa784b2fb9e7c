package relay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/checklist-wind-map/internal/cache"
	"github.com/couchcryptid/checklist-wind-map/internal/domain"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
)

// CachedRequester wraps a LevelFetcher with an in-memory LRU whose entries
// expire after a fixed age. Only successful fetches are cached.
type CachedRequester struct {
	inner   domain.LevelFetcher
	cache   *cache.LRU[domain.SampleArray]
	metrics *observability.Metrics
}

// NewCachedRequester creates a cache decorator around a level fetcher. A nil
// clock uses real time.
func NewCachedRequester(inner domain.LevelFetcher, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedRequester {
	return &CachedRequester{
		inner:   inner,
		cache:   cache.New[domain.SampleArray](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedRequester) RequestLevelData(ctx context.Context, lat, lon float64, date string, level domain.PressureLevel) (domain.SampleArray, error) {
	key := levelKey(lat, lon, date, level)
	if samples, ok := c.cache.Get(key); ok {
		c.metrics.LevelCache.WithLabelValues("hit").Inc()
		return samples, nil
	}
	c.metrics.LevelCache.WithLabelValues("miss").Inc()

	samples, err := c.inner.RequestLevelData(ctx, lat, lon, date, level)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, samples)
	return samples, nil
}

func levelKey(lat, lon float64, date string, level domain.PressureLevel) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		date, level)
}
