package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetBranchRepository returns the branch repository instance
func (f *Factory) GetBranchRepository() BranchRepository {
	return f.GetRepositories().Branch
}

// GetDeliveryChargeRepository returns the delivery charge repository instance
func (f *Factory) GetDeliveryChargeRepository() DeliveryChargeRepository {
	return f.GetRepositories().DeliveryCharge
}

// GetPostcodeOverrideRepository returns the postcode override repository instance
func (f *Factory) GetPostcodeOverrideRepository() PostcodeOverrideRepository {
	return f.GetRepositories().PostcodeOverride
}

// GetPostcodeExclusionRepository returns the postcode exclusion repository instance
func (f *Factory) GetPostcodeExclusionRepository() PostcodeExclusionRepository {
	return f.GetRepositories().PostcodeExclusion
}

// GetDistanceCacheRepository returns the distance cache repository instance
func (f *Factory) GetDistanceCacheRepository() DistanceCacheRepository {
	return f.GetRepositories().DistanceCache
}

// GetServiceChargeRepository returns the service charge repository instance
func (f *Factory) GetServiceChargeRepository() ServiceChargeRepository {
	return f.GetRepositories().ServiceCharge
}

// GetOrderRepository returns the order repository instance
func (f *Factory) GetOrderRepository() OrderRepository {
	return f.GetRepositories().Order
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
