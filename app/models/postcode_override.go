package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/internal/pkg/geo"
)

// PostcodeOverride pins a fixed delivery charge for one full postcode,
// gated by a minimum spend. When the order total is below MinSpend the
// resolver falls through to distance based pricing instead of rejecting;
// an override is an upgrade path, not a hard gate.
type PostcodeOverride struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BranchID uint   `gorm:"index;not null;uniqueIndex:idx_override_branch_postcode" json:"branch_id" validate:"required"`
	Branch   Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	// Outward and inward postcode parts, stored normalized (upper case, no
	// whitespace), e.g. "SW1A" + "1AA".
	Prefix   string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_override_branch_postcode" json:"prefix" validate:"required,min=2,max=10"`
	Postfix  string  `gorm:"type:varchar(5);not null;uniqueIndex:idx_override_branch_postcode" json:"postfix" validate:"required,len=3"`
	MinSpend float64 `gorm:"type:decimal(8,2);default:0" json:"min_spend" validate:"gte=0"`
	Charge   float64 `gorm:"type:decimal(8,2);not null" json:"charge" validate:"gte=0"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PostcodeOverride model
func (PostcodeOverride) TableName() string {
	return "postcode_overrides"
}

// BeforeSave normalizes the pattern parts so the uniqueness index and the
// lookup compare like with like.
func (o *PostcodeOverride) BeforeSave(tx *gorm.DB) error {
	o.Prefix = geo.NormalizePostcode(o.Prefix)
	o.Postfix = geo.NormalizePostcode(o.Postfix)
	return nil
}

// Matches reports whether the override applies to the given postcode.
func (o *PostcodeOverride) Matches(postcode string) bool {
	prefix, postfix := geo.SplitPostcode(postcode)
	return prefix == o.Prefix && postfix == o.Postfix
}

// FullPostcode returns the display form of the override's postcode.
func (o *PostcodeOverride) FullPostcode() string {
	return o.Prefix + " " + o.Postfix
}
