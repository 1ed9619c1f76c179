package inmem

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/hashicorp/go-memdb"
)

// shopRecord is the memdb representation of a shop.
// The indexable fields are replicated at the top level because memdb cannot
// index the nullable pointer fields of the entity itself.
type shopRecord struct {
	FHRSID     int64
	LastSeenAt int64
	searchText string
	obj        shop.Shop
}

// ShopRepository implements the shop.Repository interface using go-memdb
type ShopRepository struct {
	db *memdb.MemDB
}

var _ shop.Repository = (*ShopRepository)(nil)

// GetPage retrieves one window of shops ordered by business name (ascending)
// together with the exact total amount of matching rows.
// The full-text predicate degrades to a case-insensitive substring match over
// the name, address and postcode.
func (repo *ShopRepository) GetPage(_ context.Context, offset, limit uint64, search string) ([]*shop.Shop, uint64, error) {
	records, err := repo.matching(search)
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(records, func(i, j int) bool {
		return sortName(&records[i].obj) < sortName(&records[j].obj)
	})

	n := uint64(len(records))
	if limit == 0 {
		limit = 10
	}
	return windowOf(records, offset, limit, nil), n, nil
}

// GetPageByDistance retrieves one window of shops ranked by their distance to
// the given coordinates. Shops without a geocode are excluded.
func (repo *ShopRepository) GetPageByDistance(ctx context.Context, lat, lng float64, offset, limit uint64) (*shop.RankedPage, error) {
	return repo.rankedPage(lat, lng, "", offset, limit)
}

// GetPageByDistanceAndSearch behaves like GetPageByDistance but restricts the
// row set to full-text matches of the given search term first
func (repo *ShopRepository) GetPageByDistanceAndSearch(ctx context.Context, lat, lng float64, search string, offset, limit uint64) (*shop.RankedPage, error) {
	return repo.rankedPage(lat, lng, search, offset, limit)
}

// GetByID retrieves a shop by its FHRS ID
func (repo *ShopRepository) GetByID(_ context.Context, fhrsID int64) (*shop.Shop, error) {
	txn := repo.db.Txn(false)
	raw, err := txn.First("shops", "id", fhrsID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	cpy := raw.(*shopRecord).obj
	return &cpy, nil
}

// UpsertBatch inserts the given shops, replacing rows that already exist under
// the same FHRS ID
func (repo *ShopRepository) UpsertBatch(_ context.Context, shops []*shop.Shop) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()
	for _, obj := range shops {
		if err := txn.Insert("shops", recordOf(obj)); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}

// DeleteLastSeenBefore removes every shop whose LastSeenAt timestamp is older
// than the given cutoff and reports how many rows were swept
func (repo *ShopRepository) DeleteLastSeenBefore(_ context.Context, cutoff int64) (uint64, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get("shops", "lastSeenAt")
	if err != nil {
		return 0, err
	}
	stale := []*shopRecord{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		record := raw.(*shopRecord)
		if record.LastSeenAt < cutoff {
			stale = append(stale, record)
		}
	}
	for _, record := range stale {
		if err := txn.Delete("shops", record); err != nil {
			return 0, err
		}
	}

	txn.Commit()
	return uint64(len(stale)), nil
}

// matching returns every record matching the given search term
func (repo *ShopRepository) matching(search string) ([]*shopRecord, error) {
	txn := repo.db.Txn(false)
	it, err := txn.Get("shops", "id")
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(search))
	records := []*shopRecord{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		record := raw.(*shopRecord)
		if term != "" && !strings.Contains(record.searchText, term) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (repo *ShopRepository) rankedPage(lat, lng float64, search string, offset, limit uint64) (*shop.RankedPage, error) {
	records, err := repo.matching(search)
	if err != nil {
		return nil, err
	}

	located := []*shopRecord{}
	distances := map[int64]float64{}
	for _, record := range records {
		if record.obj.Latitude == nil || record.obj.Longitude == nil {
			continue
		}
		located = append(located, record)
		distances[record.FHRSID] = haversineMiles(lat, lng, *record.obj.Latitude, *record.obj.Longitude)
	}
	sort.Slice(located, func(i, j int) bool {
		return distances[located[i].FHRSID] < distances[located[j].FHRSID]
	})

	// The total window count is replicated onto every row by the real SQL
	// procedures; 0 for an empty window falls out of that contract naturally
	page := &shop.RankedPage{
		Shops: windowOf(located, offset, limit, distances),
	}
	if len(page.Shops) > 0 {
		page.Total = uint64(len(located))
	}
	return page, nil
}

// windowOf copies one offset window out of the given records.
// When distances are provided, every copy carries its DistanceMiles.
func windowOf(records []*shopRecord, offset, limit uint64, distances map[int64]float64) []*shop.Shop {
	total := uint64(len(records))
	if offset >= total {
		return []*shop.Shop{}
	}
	end := offset + limit
	if end > total {
		end = total
	}

	shops := make([]*shop.Shop, 0, end-offset)
	for _, record := range records[offset:end] {
		cpy := record.obj
		if distances != nil {
			distance := distances[record.FHRSID]
			cpy.DistanceMiles = &distance
		}
		shops = append(shops, &cpy)
	}
	return shops
}

func recordOf(obj *shop.Shop) *shopRecord {
	cpy := *obj
	cpy.DistanceMiles = nil
	searchText := strings.ToLower(strings.Join([]string{
		strValue(obj.BusinessName),
		strValue(obj.Address),
		strValue(obj.Postcode),
	}, " "))
	return &shopRecord{
		FHRSID:     obj.FHRSID,
		LastSeenAt: obj.LastSeenAt,
		searchText: searchText,
		obj:        cpy,
	}
}

func sortName(obj *shop.Shop) string {
	if obj.BusinessName == nil {
		return ""
	}
	return *obj.BusinessName
}

func strValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}

// haversineMiles computes the great-circle distance between two coordinates
// in miles, mirroring the SQL helper of the PostgreSQL driver
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusMiles = 3959

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	cosine := math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Cos(rad(lng2)-rad(lng1)) +
		math.Sin(rad(lat1))*math.Sin(rad(lat2))
	return earthRadiusMiles * math.Acos(math.Max(-1, math.Min(1, cosine)))
}
