package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses reconciled against the payment provider.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusCanceled = "canceled"
)

// Order is the slice of a customer order the delivery and payment machinery
// needs: totals, the resolved delivery charge, and the payment intent the
// reconciliation worker polls the provider for.
type Order struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	UUID           string  `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	BranchID       uint    `gorm:"index;not null" json:"branch_id" validate:"required"`
	Branch         Branch  `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	CustomerEmail  string  `gorm:"type:varchar(255)" json:"customer_email" validate:"omitempty,email"`
	Postcode       string  `gorm:"type:varchar(20)" json:"postcode"`
	Total          float64 `gorm:"type:decimal(10,2);not null" json:"total" validate:"gt=0"`
	DeliveryCharge float64 `gorm:"type:decimal(8,2);default:0" json:"delivery_charge"`
	ServiceCharge  float64 `gorm:"type:decimal(8,2);default:0" json:"service_charge"`

	PaymentIntentID string     `gorm:"type:varchar(255);index" json:"payment_intent_id"`
	PaymentStatus   string     `gorm:"type:varchar(20);default:'pending';index" json:"payment_status"`
	PaidAt          *time.Time `json:"paid_at"`
	NotifiedAt      *time.Time `json:"notified_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate generates the public UUID if none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.New().String()
	}
	return nil
}
