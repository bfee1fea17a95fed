package repository

import (
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
)

// serviceChargeRepository implements the ServiceChargeRepository interface
type serviceChargeRepository struct {
	db *gorm.DB
}

// NewServiceChargeRepository creates a new service charge repository instance
func NewServiceChargeRepository(db *gorm.DB) ServiceChargeRepository {
	return &serviceChargeRepository{db: db}
}

// Create creates a new service charge in the database
func (r *serviceChargeRepository) Create(charge *models.ServiceCharge) error {
	return r.db.Create(charge).Error
}

// GetByID retrieves a service charge by its ID
func (r *serviceChargeRepository) GetByID(id uint) (*models.ServiceCharge, error) {
	var charge models.ServiceCharge
	err := r.db.First(&charge, id).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// GetActiveByBranch retrieves the active service charges of a branch ordered
// by ascending min spend
func (r *serviceChargeRepository) GetActiveByBranch(branchID uint) ([]models.ServiceCharge, error) {
	var charges []models.ServiceCharge
	err := r.db.Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("min_spend ASC").Find(&charges).Error
	return charges, err
}

// GetByBranch retrieves all service charges of a branch with pagination
func (r *serviceChargeRepository) GetByBranch(branchID uint, offset, limit int) ([]models.ServiceCharge, error) {
	var charges []models.ServiceCharge
	err := r.db.Where("branch_id = ?", branchID).
		Order("min_spend ASC").Offset(offset).Limit(limit).Find(&charges).Error
	return charges, err
}

// Update updates an existing service charge in the database
func (r *serviceChargeRepository) Update(charge *models.ServiceCharge) error {
	return r.db.Save(charge).Error
}

// Delete soft deletes a service charge
func (r *serviceChargeRepository) Delete(id uint) error {
	return r.db.Delete(&models.ServiceCharge{}, id).Error
}
