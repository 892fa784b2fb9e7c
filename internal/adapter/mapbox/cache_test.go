package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{PlaceName: "Sandy Hook", FormattedAddress: "Sandy Hook, New Jersey, United States"},
	}
	m := testMetrics()
	cached := NewCachedGeocoder(inner, 10, m)

	r1, err := cached.ReverseGeocode(context.Background(), 40.4615, -74.0025)
	require.NoError(t, err)
	r2, err := cached.ReverseGeocode(context.Background(), 40.4615, -74.0025)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")), 0)
}

func TestCachedGeocoder_NearbyCoordinatesShareEntry(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Sandy Hook"}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 40.46151, -74.00249)
	_, _ = cached.ReverseGeocode(context.Background(), 40.46149, -74.00251)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Place"}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 40.1, -74.2)
	_, _ = cached.ReverseGeocode(context.Background(), 30.2, -97.7)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 0, 0)
	_, _ = cached.ReverseGeocode(context.Background(), 0, 0)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("timeout")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 1, 1)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 1, 1)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
