package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Rounding to 5 decimal places collapses physically close points onto the
// same key so a few meters of GPS jitter still hit the cache.
func TestCoordCacheKey(t *testing.T) {
	assert.Equal(t, "51.50135,-0.14189", CoordCacheKey(51.501354, -0.141890))
	assert.Equal(t, CoordCacheKey(51.5013541, -0.1418901), CoordCacheKey(51.5013539, -0.1418899))
	assert.NotEqual(t, CoordCacheKey(51.50135, -0.14189), CoordCacheKey(51.50136, -0.14189))
	assert.Equal(t, "0.00000,0.00000", CoordCacheKey(0, 0))
}

// A->B and B->A are distinct keys; the cache is directional.
func TestCoordCacheKeyDirectional(t *testing.T) {
	from := CoordCacheKey(51.50135, -0.14189)
	to := CoordCacheKey(53.79648, -1.54785)
	assert.NotEqual(t, from+"|"+to, to+"|"+from)
}

func TestDistanceCacheEntryExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := DistanceCacheEntry{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, entry.Expired(now))
	assert.True(t, entry.Expired(now.Add(time.Hour)), "expiry instant itself counts as expired")
	assert.True(t, entry.Expired(now.Add(2*time.Hour)))
}
