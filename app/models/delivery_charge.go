package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryCharge is one distance band of a branch's delivery charge table:
// orders up to MaxDistance miles away with a total inside [MinSpend, MaxSpend]
// pay Charge. MaxSpend = 0 means no upper bound.
//
// Bands are looked up in ascending MaxDistance order and the first match
// wins. Overlapping bands are not rejected at write time; the ordering is
// the documented tie-break.
type DeliveryCharge struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	BranchID    uint    `gorm:"index;not null" json:"branch_id" validate:"required"`
	Branch      Branch  `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	MaxDistance float64 `gorm:"type:decimal(8,2);not null" json:"max_distance" validate:"required,gt=0"` // miles
	MinSpend    float64 `gorm:"type:decimal(8,2);default:0" json:"min_spend" validate:"gte=0"`
	MaxSpend    float64 `gorm:"type:decimal(8,2);default:0" json:"max_spend" validate:"gte=0"` // 0 = unbounded
	Charge      float64 `gorm:"type:decimal(8,2);not null" json:"charge" validate:"gte=0"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the DeliveryCharge model
func (DeliveryCharge) TableName() string {
	return "delivery_charges"
}

// CoversSpend reports whether an order total falls inside the band's
// [MinSpend, MaxSpend] range. MaxSpend = 0 is treated as unbounded.
func (d *DeliveryCharge) CoversSpend(orderTotal float64) bool {
	if orderTotal < d.MinSpend {
		return false
	}
	if d.MaxSpend > 0 && orderTotal > d.MaxSpend {
		return false
	}
	return true
}
