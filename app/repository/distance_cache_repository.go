package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dinefront/dinefront/app/models"
)

// distanceCacheRepository implements the DistanceCacheRepository interface
type distanceCacheRepository struct {
	db *gorm.DB
}

// NewDistanceCacheRepository creates a new distance cache repository instance
func NewDistanceCacheRepository(db *gorm.DB) DistanceCacheRepository {
	return &distanceCacheRepository{db: db}
}

// FindValid returns the non-expired entry for the key pair. Expired rows are
// filtered here, never deleted; retention is a separate concern.
func (r *distanceCacheRepository) FindValid(fromKey, toKey string, now time.Time) (*models.DistanceCacheEntry, error) {
	var entry models.DistanceCacheEntry
	err := r.db.Where("from_key = ? AND to_key = ? AND expires_at > ?", fromKey, toKey, now).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert creates the entry or overwrites the existing row for its key pair,
// refreshing the cached distance, source and expiry. Concurrent writers for
// the same key pair are last-write-wins.
func (r *distanceCacheRepository) Upsert(entry *models.DistanceCacheEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "from_key"}, {Name: "to_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"from_lat", "from_lng", "to_lat", "to_lng",
			"distance_meters", "source", "expires_at", "updated_at",
		}),
	}).Create(entry).Error
}
