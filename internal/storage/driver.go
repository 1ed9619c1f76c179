package storage

import (
	"context"

	"github.com/cluckmap/shop-server/internal/shop"
)

// Driver represents a storage driver
type Driver interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error

	// Shops provides a shop repository implementation
	Shops() shop.Repository

	// Close closes the storage driver (i.e. closes a database connection)
	Close()
}
