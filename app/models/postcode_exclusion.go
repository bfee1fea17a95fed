package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/internal/pkg/geo"
)

// PostcodeExclusion marks a postcode (or, with an empty Postfix, an entire
// outward district) as never deliverable for a branch. Exclusions are
// checked before any charge computation and short-circuit everything else.
type PostcodeExclusion struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BranchID uint   `gorm:"index;not null;uniqueIndex:idx_exclusion_branch_postcode" json:"branch_id" validate:"required"`
	Branch   Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Prefix   string `gorm:"type:varchar(10);not null;uniqueIndex:idx_exclusion_branch_postcode" json:"prefix" validate:"required,min=2,max=10"`
	Postfix  string `gorm:"type:varchar(5);uniqueIndex:idx_exclusion_branch_postcode" json:"postfix" validate:"omitempty,len=3"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PostcodeExclusion model
func (PostcodeExclusion) TableName() string {
	return "postcode_exclusions"
}

// BeforeSave normalizes the pattern parts.
func (e *PostcodeExclusion) BeforeSave(tx *gorm.DB) error {
	e.Prefix = geo.NormalizePostcode(e.Prefix)
	e.Postfix = geo.NormalizePostcode(e.Postfix)
	return nil
}

// Matches reports whether the exclusion applies to the given postcode. An
// empty Postfix matches every postcode in the outward district.
func (e *PostcodeExclusion) Matches(postcode string) bool {
	prefix, postfix := geo.SplitPostcode(postcode)
	if prefix != e.Prefix {
		return false
	}
	return e.Postfix == "" || postfix == e.Postfix
}
