package repository

import (
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
)

// branchRepository implements the BranchRepository interface
type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository instance
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

// Create creates a new branch in the database
func (r *branchRepository) Create(branch *models.Branch) error {
	return r.db.Create(branch).Error
}

// GetByID retrieves a branch by its ID
func (r *branchRepository) GetByID(id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.First(&branch, id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetByUUID retrieves a branch by its public UUID
func (r *branchRepository) GetByUUID(uuid string) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.Where("uuid = ?", uuid).First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// Update updates an existing branch in the database
func (r *branchRepository) Update(branch *models.Branch) error {
	return r.db.Save(branch).Error
}

// Delete soft deletes a branch
func (r *branchRepository) Delete(id uint) error {
	return r.db.Delete(&models.Branch{}, id).Error
}

// List retrieves branches with pagination
func (r *branchRepository) List(offset, limit int) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.Order("name ASC").Offset(offset).Limit(limit).Find(&branches).Error
	return branches, err
}

// Count returns the total number of branches
func (r *branchRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Branch{}).Count(&count).Error
	return count, err
}
