package repository

import (
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/geo"
)

// postcodeExclusionRepository implements the PostcodeExclusionRepository interface
type postcodeExclusionRepository struct {
	db *gorm.DB
}

// NewPostcodeExclusionRepository creates a new postcode exclusion repository instance
func NewPostcodeExclusionRepository(db *gorm.DB) PostcodeExclusionRepository {
	return &postcodeExclusionRepository{db: db}
}

// Create creates a new postcode exclusion in the database
func (r *postcodeExclusionRepository) Create(exclusion *models.PostcodeExclusion) error {
	return r.db.Create(exclusion).Error
}

// GetByID retrieves a postcode exclusion by its ID
func (r *postcodeExclusionRepository) GetByID(id uint) (*models.PostcodeExclusion, error) {
	var exclusion models.PostcodeExclusion
	err := r.db.First(&exclusion, id).Error
	if err != nil {
		return nil, err
	}
	return &exclusion, nil
}

// GetActiveByBranch retrieves the active exclusions of a branch
func (r *postcodeExclusionRepository) GetActiveByBranch(branchID uint) ([]models.PostcodeExclusion, error) {
	var exclusions []models.PostcodeExclusion
	err := r.db.Where("branch_id = ? AND is_active = ?", branchID, true).Find(&exclusions).Error
	return exclusions, err
}

// GetByBranch retrieves all exclusions of a branch with pagination
func (r *postcodeExclusionRepository) GetByBranch(branchID uint, offset, limit int) ([]models.PostcodeExclusion, error) {
	var exclusions []models.PostcodeExclusion
	err := r.db.Where("branch_id = ?", branchID).
		Order("prefix ASC, postfix ASC").Offset(offset).Limit(limit).Find(&exclusions).Error
	return exclusions, err
}

// FindByPattern retrieves the exclusion for an exact postcode pattern
func (r *postcodeExclusionRepository) FindByPattern(branchID uint, prefix, postfix string) (*models.PostcodeExclusion, error) {
	var exclusion models.PostcodeExclusion
	err := r.db.Where("branch_id = ? AND prefix = ? AND postfix = ?",
		branchID, geo.NormalizePostcode(prefix), geo.NormalizePostcode(postfix)).
		First(&exclusion).Error
	if err != nil {
		return nil, err
	}
	return &exclusion, nil
}

// Update updates an existing postcode exclusion in the database
func (r *postcodeExclusionRepository) Update(exclusion *models.PostcodeExclusion) error {
	return r.db.Save(exclusion).Error
}

// Delete soft deletes a postcode exclusion
func (r *postcodeExclusionRepository) Delete(id uint) error {
	return r.db.Delete(&models.PostcodeExclusion{}, id).Error
}
