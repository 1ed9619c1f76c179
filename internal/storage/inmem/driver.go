package inmem

import (
	"context"

	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/cluckmap/shop-server/internal/storage"
	"github.com/hashicorp/go-memdb"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"shops": {
			Name: "shops",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.IntFieldIndex{Field: "FHRSID"},
				},
				"lastSeenAt": {
					Name:         "lastSeenAt",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.IntFieldIndex{Field: "LastSeenAt"},
				},
			},
		},
	},
}

// Driver represents the in-memory storage driver built using hashicorp/go-memdb.
// It backs tests and DSN-less development runs; its full-text predicate is a
// naive substring match rather than a real text search index.
type Driver struct {
	db    *memdb.MemDB
	shops *ShopRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver.
// Use Initialize to set up the table schema and the repository implementations.
func New() *Driver {
	return &Driver{}
}

// Initialize sets up the in-memory database and the repository implementations
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db
	driver.shops = &ShopRepository{db: db}
	return nil
}

// Shops provides the in-memory shop repository implementation
func (driver *Driver) Shops() shop.Repository {
	return driver.shops
}

// Close discards the repository implementations and the underlying database
func (driver *Driver) Close() {
	driver.shops = nil
	driver.db = nil
}
