package repository

import (
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
)

// deliveryChargeRepository implements the DeliveryChargeRepository interface
type deliveryChargeRepository struct {
	db *gorm.DB
}

// NewDeliveryChargeRepository creates a new delivery charge repository instance
func NewDeliveryChargeRepository(db *gorm.DB) DeliveryChargeRepository {
	return &deliveryChargeRepository{db: db}
}

// Create creates a new delivery charge band in the database
func (r *deliveryChargeRepository) Create(charge *models.DeliveryCharge) error {
	return r.db.Create(charge).Error
}

// GetByID retrieves a delivery charge band by its ID
func (r *deliveryChargeRepository) GetByID(id uint) (*models.DeliveryCharge, error) {
	var charge models.DeliveryCharge
	err := r.db.First(&charge, id).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// GetActiveByBranch retrieves the active bands of a branch ordered by
// ascending max distance. The ordering is the documented tie-break for
// overlapping bands: first match wins.
func (r *deliveryChargeRepository) GetActiveByBranch(branchID uint) ([]models.DeliveryCharge, error) {
	var charges []models.DeliveryCharge
	err := r.db.Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("max_distance ASC").Find(&charges).Error
	return charges, err
}

// GetByBranch retrieves all bands of a branch with pagination
func (r *deliveryChargeRepository) GetByBranch(branchID uint, offset, limit int) ([]models.DeliveryCharge, error) {
	var charges []models.DeliveryCharge
	err := r.db.Where("branch_id = ?", branchID).
		Order("max_distance ASC").Offset(offset).Limit(limit).Find(&charges).Error
	return charges, err
}

// Update updates an existing delivery charge band in the database
func (r *deliveryChargeRepository) Update(charge *models.DeliveryCharge) error {
	return r.db.Save(charge).Error
}

// Delete soft deletes a delivery charge band
func (r *deliveryChargeRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliveryCharge{}, id).Error
}
