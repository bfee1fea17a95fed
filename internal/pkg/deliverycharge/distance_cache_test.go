package deliverycharge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/geo"
)

func TestDistanceCacheRoundTrip(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	to := geo.Coordinates{Lat: 53.81, Lng: -1.52}

	_, hit, err := cache.Lookup(from, to)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Upsert(from, to, geo.Meters(4200), "google", DefaultCacheTTL))

	got, hit, err := cache.Lookup(from, to)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 4200.0, got.Meters())
}

// The key is directional: the reverse leg is a separate entry.
func TestDistanceCacheDirectionalKeys(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	to := geo.Coordinates{Lat: 53.81, Lng: -1.52}

	require.NoError(t, cache.Upsert(from, to, geo.Meters(4200), "google", DefaultCacheTTL))

	_, hit, err := cache.Lookup(to, from)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDistanceCacheExpiry(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	to := geo.Coordinates{Lat: 53.81, Lng: -1.52}
	require.NoError(t, cache.Upsert(from, to, geo.Meters(4200), "google", DefaultCacheTTL))

	// Just inside the 4032 hour window.
	now = now.Add(DefaultCacheTTL - time.Minute)
	_, hit, err := cache.Lookup(from, to)
	require.NoError(t, err)
	assert.True(t, hit)

	// Past it.
	now = now.Add(2 * time.Minute)
	_, hit, err = cache.Lookup(from, to)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDistanceCacheUpsertRefreshesExpiry(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	to := geo.Coordinates{Lat: 53.81, Lng: -1.52}
	require.NoError(t, cache.Upsert(from, to, geo.Meters(4200), "google", DefaultCacheTTL))

	now = now.Add(DefaultCacheTTL + time.Hour)
	require.NoError(t, cache.Upsert(from, to, geo.Meters(4300), "google", DefaultCacheTTL))
	assert.Equal(t, 2, repo.upserts)
	assert.Len(t, repo.entries, 1, "refresh overwrites, never duplicates")

	got, hit, err := cache.Lookup(from, to)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 4300.0, got.Meters())
}

// Physically close coordinates collapse onto one entry via 5 decimal key
// rounding.
func TestDistanceCacheKeyRounding(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	require.NoError(t, cache.Upsert(from, geo.Coordinates{Lat: 53.810001, Lng: -1.520004}, geo.Meters(4200), "google", DefaultCacheTTL))

	got, hit, err := cache.Lookup(from, geo.Coordinates{Lat: 53.810004, Lng: -1.520001})
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 4200.0, got.Meters())
}

func TestDistanceCacheZeroTTLFallsBackToDefault(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewDistanceCache(repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	from := geo.Coordinates{Lat: 53.79648, Lng: -1.54785}
	to := geo.Coordinates{Lat: 53.81, Lng: -1.52}
	require.NoError(t, cache.Upsert(from, to, geo.Meters(4200), "google", 0))

	entry := repo.entries[models.CoordCacheKey(from.Lat, from.Lng)+"|"+models.CoordCacheKey(to.Lat, to.Lng)]
	require.NotNil(t, entry)
	assert.Equal(t, now.Add(DefaultCacheTTL), entry.ExpiresAt)
}
