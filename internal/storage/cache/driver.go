package cache

import (
	"context"
	"time"

	"github.com/cluckmap/shop-server/internal/hashmap"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/cluckmap/shop-server/internal/storage"
)

// Driver represents a storage driver implementation that wraps another one in order to implement in-memory caching
type Driver struct {
	underlying storage.Driver
	shops      *ShopRepository
}

var _ storage.Driver = (*Driver)(nil)

// New returns a new caching storage driver
func New(underlying storage.Driver) *Driver {
	return &Driver{
		underlying: underlying,
	}
}

// Initialize initializes the caching repositories
func (driver *Driver) Initialize(_ context.Context) error {
	shopCache := hashmap.NewExpiring[int64, *shop.Shop](5 * time.Minute)
	shopCache.ScheduleCleanupTask(10 * time.Second)
	driver.shops = &ShopRepository{
		repo:  driver.underlying.Shops(),
		cache: shopCache,
	}
	return nil
}

// Shops provides the caching shop repository implementation
func (driver *Driver) Shops() shop.Repository {
	return driver.shops
}

// Close closes the caching repositories and disposes their instances
func (driver *Driver) Close() {
	driver.shops.cache.StopCleanupTask()
	driver.shops = nil
}
