package models

import (
	"fmt"
	"time"
)

// DistanceCacheEntry caches one travel distance between two coordinate
// pairs. The lookup key is the pair of rounded coordinate strings; rounding
// to 5 decimal places collapses physically close points onto the same entry.
// The key is directional: A->B and B->A are separate entries.
//
// Entries are never deleted, only overwritten; expiry is enforced by
// filtering on ExpiresAt at read time.
type DistanceCacheEntry struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	FromLat float64 `gorm:"type:decimal(10,8);not null" json:"from_lat"`
	FromLng float64 `gorm:"type:decimal(11,8);not null" json:"from_lng"`
	ToLat   float64 `gorm:"type:decimal(10,8);not null" json:"to_lat"`
	ToLng   float64 `gorm:"type:decimal(11,8);not null" json:"to_lng"`
	// Rounded "lat,lng" strings, the actual uniqueness key.
	FromKey        string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_cache_from_to" json:"from_key"`
	ToKey          string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_cache_from_to" json:"to_key"`
	DistanceMeters float64   `gorm:"type:decimal(12,2);not null" json:"distance_meters"`
	Source         string    `gorm:"type:varchar(50);default:'google'" json:"source"`
	ExpiresAt      time.Time `gorm:"index;not null" json:"expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the DistanceCacheEntry model
func (DistanceCacheEntry) TableName() string {
	return "distance_cache_entries"
}

// CoordCacheKey serializes a coordinate rounded to 5 decimal places into the
// string form used as the cache key.
func CoordCacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lng)
}

// Expired reports whether the entry is past its expiry at the given time.
func (e *DistanceCacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
