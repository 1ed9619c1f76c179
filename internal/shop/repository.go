package shop

import (
	"context"
)

// Repository defines the shop repository API
type Repository interface {
	// GetPage retrieves one window of shops ordered by business name
	// (ascending) together with the exact total amount of matching rows.
	// A non-empty search term restricts the row set to full-text matches
	// before counting; case sensitivity of the ordering is store-defined.
	GetPage(ctx context.Context, offset, limit uint64, search string) ([]*Shop, uint64, error)

	// GetPageByDistance retrieves one window of shops ranked by their distance
	// to the given coordinates. Every returned row carries DistanceMiles.
	GetPageByDistance(ctx context.Context, lat, lng float64, offset, limit uint64) (*RankedPage, error)

	// GetPageByDistanceAndSearch behaves like GetPageByDistance but restricts
	// the row set to full-text matches of the given search term first
	GetPageByDistanceAndSearch(ctx context.Context, lat, lng float64, search string, offset, limit uint64) (*RankedPage, error)

	// GetByID retrieves a shop by its FHRS ID; nil if it does not exist
	GetByID(ctx context.Context, fhrsID int64) (*Shop, error)

	// UpsertBatch inserts the given shops, replacing rows that already exist
	// under the same FHRS ID
	UpsertBatch(ctx context.Context, shops []*Shop) error

	// DeleteLastSeenBefore removes every shop whose LastSeenAt timestamp is
	// older than the given cutoff and reports how many rows were swept
	DeleteLastSeenBefore(ctx context.Context, cutoff int64) (uint64, error)
}

// RankedPage is the raw result of a distance-ranked procedure call.
// The underlying procedures replicate the total window count on every row;
// Total holds the first row's value and is 0 when no rows matched, which by
// contract conflates an empty window with an unknown count.
type RankedPage struct {
	Shops []*Shop
	Total uint64
}
