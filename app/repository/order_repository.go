package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order in the database
func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID retrieves an order by its ID
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Branch").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUUID retrieves an order by its public UUID
func (r *orderRepository) GetByUUID(uuid string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Branch").Where("uuid = ?", uuid).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPendingPayment retrieves orders still awaiting payment reconciliation,
// oldest first, limited to one worker batch
func (r *orderRepository) GetPendingPayment(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("payment_status = ? AND payment_intent_id <> ''", models.PaymentStatusPending).
		Order("created_at ASC").Limit(limit).Find(&orders).Error
	return orders, err
}

// Update updates an existing order in the database
func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// MarkPaymentStatus updates the reconciled payment status of an order
func (r *orderRepository) MarkPaymentStatus(id uint, status string, paidAt *time.Time) error {
	updates := map[string]interface{}{"payment_status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// MarkNotified records that the confirmation mail for an order went out
func (r *orderRepository) MarkNotified(id uint, at time.Time) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("notified_at", at).Error
}
