package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
)

// BranchRepository defines the interface for branch-related database operations
type BranchRepository interface {
	Create(branch *models.Branch) error
	GetByID(id uint) (*models.Branch, error)
	GetByUUID(uuid string) (*models.Branch, error)
	Update(branch *models.Branch) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Branch, error)
	Count() (int64, error)
}

// DeliveryChargeRepository defines the interface for delivery charge band operations
type DeliveryChargeRepository interface {
	Create(charge *models.DeliveryCharge) error
	GetByID(id uint) (*models.DeliveryCharge, error)
	// GetActiveByBranch returns the active bands of a branch ordered by
	// ascending max distance; the resolver takes the first match.
	GetActiveByBranch(branchID uint) ([]models.DeliveryCharge, error)
	GetByBranch(branchID uint, offset, limit int) ([]models.DeliveryCharge, error)
	Update(charge *models.DeliveryCharge) error
	Delete(id uint) error
}

// PostcodeOverrideRepository defines the interface for postcode price override operations
type PostcodeOverrideRepository interface {
	Create(override *models.PostcodeOverride) error
	GetByID(id uint) (*models.PostcodeOverride, error)
	GetActiveByBranch(branchID uint) ([]models.PostcodeOverride, error)
	GetByBranch(branchID uint, offset, limit int) ([]models.PostcodeOverride, error)
	FindByPattern(branchID uint, prefix, postfix string) (*models.PostcodeOverride, error)
	Update(override *models.PostcodeOverride) error
	Delete(id uint) error
}

// PostcodeExclusionRepository defines the interface for postcode exclusion operations
type PostcodeExclusionRepository interface {
	Create(exclusion *models.PostcodeExclusion) error
	GetByID(id uint) (*models.PostcodeExclusion, error)
	GetActiveByBranch(branchID uint) ([]models.PostcodeExclusion, error)
	GetByBranch(branchID uint, offset, limit int) ([]models.PostcodeExclusion, error)
	FindByPattern(branchID uint, prefix, postfix string) (*models.PostcodeExclusion, error)
	Update(exclusion *models.PostcodeExclusion) error
	Delete(id uint) error
}

// DistanceCacheRepository defines the interface for the persistent distance cache
type DistanceCacheRepository interface {
	// FindValid returns the entry for the key pair whose expiry is after
	// now, or gorm.ErrRecordNotFound.
	FindValid(fromKey, toKey string, now time.Time) (*models.DistanceCacheEntry, error)
	// Upsert creates the entry for its key pair or overwrites the existing
	// one, refreshing distance, source and expiry.
	Upsert(entry *models.DistanceCacheEntry) error
}

// ServiceChargeRepository defines the interface for service charge operations
type ServiceChargeRepository interface {
	Create(charge *models.ServiceCharge) error
	GetByID(id uint) (*models.ServiceCharge, error)
	GetActiveByBranch(branchID uint) ([]models.ServiceCharge, error)
	GetByBranch(branchID uint, offset, limit int) ([]models.ServiceCharge, error)
	Update(charge *models.ServiceCharge) error
	Delete(id uint) error
}

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUUID(uuid string) (*models.Order, error)
	// GetPendingPayment returns orders with a payment intent still awaiting
	// reconciliation, oldest first.
	GetPendingPayment(limit int) ([]models.Order, error)
	Update(order *models.Order) error
	MarkPaymentStatus(id uint, status string, paidAt *time.Time) error
	MarkNotified(id uint, at time.Time) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Branch            BranchRepository
	DeliveryCharge    DeliveryChargeRepository
	PostcodeOverride  PostcodeOverrideRepository
	PostcodeExclusion PostcodeExclusionRepository
	DistanceCache     DistanceCacheRepository
	ServiceCharge     ServiceChargeRepository
	Order             OrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Branch:            NewBranchRepository(db),
		DeliveryCharge:    NewDeliveryChargeRepository(db),
		PostcodeOverride:  NewPostcodeOverrideRepository(db),
		PostcodeExclusion: NewPostcodeExclusionRepository(db),
		DistanceCache:     NewDistanceCacheRepository(db),
		ServiceCharge:     NewServiceChargeRepository(db),
		Order:             NewOrderRepository(db),
	}
}
