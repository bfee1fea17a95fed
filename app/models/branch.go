package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch represents a single restaurant outlet. All delivery pricing rules
// are scoped to a branch, and its configured coordinates are the origin for
// every distance calculation.
type Branch struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UUID      string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=2,max=255"`
	Email     string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone     string `gorm:"type:varchar(50)" json:"phone"`
	Street    string `gorm:"type:varchar(255)" json:"street"`
	City      string `gorm:"type:varchar(255)" json:"city"`
	Postcode  string `gorm:"type:varchar(20)" json:"postcode"`
	Country   string `gorm:"type:varchar(2);default:'GB'" json:"country"`
	Latitude  *float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude *float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	IsActive  bool     `gorm:"default:true" json:"is_active"`

	// Rolling counter of delivery charge calculations, flushed from Redis
	// by the background counter worker.
	DeliveryCalcCount int `gorm:"default:0" json:"delivery_calc_count"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// BeforeCreate generates the public UUID if none is set
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

// HasCoordinates reports whether the branch has its origin configured.
// Without it no distance based charge can be calculated.
func (b *Branch) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}
