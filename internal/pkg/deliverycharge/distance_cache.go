package deliverycharge

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
	"github.com/dinefront/dinefront/internal/pkg/geo"
)

// DefaultCacheTTL is how long a cached distance stays valid: 4032 hours,
// i.e. four weeks.
const DefaultCacheTTL = 4032 * time.Hour

// DistanceCache is a write-through accelerator in front of the distance
// provider. Keys are directional rounded coordinate pairs; A->B and B->A are
// distinct entries. Losing directionality would raise the hit rate but
// change semantics on one-way roads, so the key stays directional.
type DistanceCache struct {
	repo repository.DistanceCacheRepository
	now  func() time.Time
}

// NewDistanceCache creates a cache service over the persistent store.
func NewDistanceCache(repo repository.DistanceCacheRepository) *DistanceCache {
	return &DistanceCache{repo: repo, now: time.Now}
}

// Lookup returns the cached distance for the coordinate pair, if a
// non-expired entry exists.
func (c *DistanceCache) Lookup(from, to geo.Coordinates) (geo.Distance, bool, error) {
	fromKey := models.CoordCacheKey(from.Lat, from.Lng)
	toKey := models.CoordCacheKey(to.Lat, to.Lng)

	entry, err := c.repo.FindValid(fromKey, toKey, c.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return geo.Meters(entry.DistanceMeters), true, nil
}

// Upsert stores a freshly computed distance for the coordinate pair,
// creating the entry or refreshing the existing one with a new expiry.
func (c *DistanceCache) Upsert(from, to geo.Coordinates, distance geo.Distance, source string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	entry := &models.DistanceCacheEntry{
		FromLat:        from.Lat,
		FromLng:        from.Lng,
		ToLat:          to.Lat,
		ToLng:          to.Lng,
		FromKey:        models.CoordCacheKey(from.Lat, from.Lng),
		ToKey:          models.CoordCacheKey(to.Lat, to.Lng),
		DistanceMeters: distance.Meters(),
		Source:         source,
		ExpiresAt:      c.now().Add(ttl),
	}
	return c.repo.Upsert(entry)
}
