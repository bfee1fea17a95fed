package repository

import (
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/geo"
)

// postcodeOverrideRepository implements the PostcodeOverrideRepository interface
type postcodeOverrideRepository struct {
	db *gorm.DB
}

// NewPostcodeOverrideRepository creates a new postcode override repository instance
func NewPostcodeOverrideRepository(db *gorm.DB) PostcodeOverrideRepository {
	return &postcodeOverrideRepository{db: db}
}

// Create creates a new postcode override in the database
func (r *postcodeOverrideRepository) Create(override *models.PostcodeOverride) error {
	return r.db.Create(override).Error
}

// GetByID retrieves a postcode override by its ID
func (r *postcodeOverrideRepository) GetByID(id uint) (*models.PostcodeOverride, error) {
	var override models.PostcodeOverride
	err := r.db.First(&override, id).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// GetActiveByBranch retrieves the active overrides of a branch
func (r *postcodeOverrideRepository) GetActiveByBranch(branchID uint) ([]models.PostcodeOverride, error) {
	var overrides []models.PostcodeOverride
	err := r.db.Where("branch_id = ? AND is_active = ?", branchID, true).Find(&overrides).Error
	return overrides, err
}

// GetByBranch retrieves all overrides of a branch with pagination
func (r *postcodeOverrideRepository) GetByBranch(branchID uint, offset, limit int) ([]models.PostcodeOverride, error) {
	var overrides []models.PostcodeOverride
	err := r.db.Where("branch_id = ?", branchID).
		Order("prefix ASC, postfix ASC").Offset(offset).Limit(limit).Find(&overrides).Error
	return overrides, err
}

// FindByPattern retrieves the override for an exact postcode pattern
func (r *postcodeOverrideRepository) FindByPattern(branchID uint, prefix, postfix string) (*models.PostcodeOverride, error) {
	var override models.PostcodeOverride
	err := r.db.Where("branch_id = ? AND prefix = ? AND postfix = ?",
		branchID, geo.NormalizePostcode(prefix), geo.NormalizePostcode(postfix)).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// Update updates an existing postcode override in the database
func (r *postcodeOverrideRepository) Update(override *models.PostcodeOverride) error {
	return r.db.Save(override).Error
}

// Delete soft deletes a postcode override
func (r *postcodeOverrideRepository) Delete(id uint) error {
	return r.db.Delete(&models.PostcodeOverride{}, id).Error
}
