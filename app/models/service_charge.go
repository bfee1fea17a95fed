package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ServiceCharge maps an order total range [MinSpend, MaxSpend] to a flat
// service fee for a branch. Unlike delivery charge bands, service charge
// ranges are validated against overlap at write time.
type ServiceCharge struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	BranchID uint    `gorm:"index;not null" json:"branch_id" validate:"required"`
	Branch   Branch  `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	MinSpend float64 `gorm:"type:decimal(8,2);default:0" json:"min_spend" validate:"gte=0"`
	MaxSpend float64 `gorm:"type:decimal(8,2);not null" json:"max_spend" validate:"required,gtfield=MinSpend"`
	Charge   float64 `gorm:"type:decimal(8,2);not null" json:"charge" validate:"gte=0"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ServiceCharge model
func (ServiceCharge) TableName() string {
	return "service_charges"
}

// Overlaps reports whether two spend ranges intersect.
func (s *ServiceCharge) Overlaps(other *ServiceCharge) bool {
	return s.MinSpend <= other.MaxSpend && other.MinSpend <= s.MaxSpend
}

// Covers reports whether an order total falls inside the charge's range.
func (s *ServiceCharge) Covers(orderTotal float64) bool {
	return orderTotal >= s.MinSpend && orderTotal <= s.MaxSpend
}

// ValidateServiceChargeRange rejects a candidate whose spend range overlaps
// an existing active range of the same branch. The candidate's own ID is
// skipped so updates do not collide with themselves.
func ValidateServiceChargeRange(existing []ServiceCharge, candidate *ServiceCharge) error {
	for i := range existing {
		if existing[i].ID == candidate.ID {
			continue
		}
		if !existing[i].IsActive {
			continue
		}
		if candidate.Overlaps(&existing[i]) {
			return fmt.Errorf("spend range %.2f-%.2f overlaps existing range %.2f-%.2f",
				candidate.MinSpend, candidate.MaxSpend, existing[i].MinSpend, existing[i].MaxSpend)
		}
	}
	return nil
}
