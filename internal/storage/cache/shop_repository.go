package cache

import (
	"context"

	"github.com/cluckmap/shop-server/internal/hashmap"
	"github.com/cluckmap/shop-server/internal/shop"
)

// ShopRepository implements the shop.Repository interface in order to implement caching.
// Only by-ID lookups are cached; listing pages are request-scoped and always
// hit the underlying repository.
type ShopRepository struct {
	repo  shop.Repository
	cache *hashmap.ExpiringMap[int64, *shop.Shop]
}

var _ shop.Repository = (*ShopRepository)(nil)

// GetPage retrieves one window of shops ordered by business name together
// with the exact total amount of matching rows
func (repo *ShopRepository) GetPage(ctx context.Context, offset, limit uint64, search string) ([]*shop.Shop, uint64, error) {
	shops, n, err := repo.repo.GetPage(ctx, offset, limit, search)
	if err != nil {
		return nil, 0, err
	}
	for _, obj := range shops {
		repo.cache.Set(obj.FHRSID, obj)
	}
	return shops, n, nil
}

// GetPageByDistance retrieves one window of shops ranked by their distance to
// the given coordinates.
// Ranked rows are not cached: their distance annotation is specific to the
// caller's location.
func (repo *ShopRepository) GetPageByDistance(ctx context.Context, lat, lng float64, offset, limit uint64) (*shop.RankedPage, error) {
	return repo.repo.GetPageByDistance(ctx, lat, lng, offset, limit)
}

// GetPageByDistanceAndSearch behaves like GetPageByDistance but restricts the
// row set to full-text matches of the given search term first
func (repo *ShopRepository) GetPageByDistanceAndSearch(ctx context.Context, lat, lng float64, search string, offset, limit uint64) (*shop.RankedPage, error) {
	return repo.repo.GetPageByDistanceAndSearch(ctx, lat, lng, search, offset, limit)
}

// GetByID retrieves a shop by its FHRS ID
func (repo *ShopRepository) GetByID(ctx context.Context, fhrsID int64) (*shop.Shop, error) {
	cached, ok := repo.cache.Lookup(fhrsID)
	if ok {
		return cached, nil
	}
	obj, err := repo.repo.GetByID(ctx, fhrsID)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.FHRSID, obj)
	}
	return obj, nil
}

// UpsertBatch inserts the given shops, replacing rows that already exist under
// the same FHRS ID
func (repo *ShopRepository) UpsertBatch(ctx context.Context, shops []*shop.Shop) error {
	if err := repo.repo.UpsertBatch(ctx, shops); err != nil {
		return err
	}
	for _, obj := range shops {
		repo.cache.Set(obj.FHRSID, obj)
	}
	return nil
}

// DeleteLastSeenBefore removes every shop whose LastSeenAt timestamp is older
// than the given cutoff.
// The whole cache is dropped afterwards as the swept IDs are not known.
func (repo *ShopRepository) DeleteLastSeenBefore(ctx context.Context, cutoff int64) (uint64, error) {
	n, err := repo.repo.DeleteLastSeenBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		repo.cache.Clear()
	}
	return n, nil
}
