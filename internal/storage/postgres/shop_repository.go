package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// shopColumns is the projection every plain shop query selects
var shopColumns = []string{
	"fhrs_id",
	"business_name",
	"address",
	"postcode",
	"rating_value",
	"rating_key",
	"business_type",
	"latitude",
	"longitude",
	"last_seen_at",
}

// ShopRepository implements the shop.Repository interface using PostgreSQL
type ShopRepository struct {
	db *pgxpool.Pool
}

var _ shop.Repository = (*ShopRepository)(nil)

// GetPage retrieves one window of shops ordered by business name (ascending)
// together with the exact total amount of matching rows.
// A non-empty search term restricts the row set to full-text matches against
// the precomputed search vector before counting.
func (repo *ShopRepository) GetPage(ctx context.Context, offset, limit uint64, search string) ([]*shop.Shop, uint64, error) {
	countQuery := squirrel.Select("COUNT(*)").From("shops")
	pageQuery := squirrel.Select(shopColumns...).From("shops").OrderBy("business_name ASC")
	if search != "" {
		filter := squirrel.Expr("search_vector @@ plainto_tsquery('english', ?)", search)
		countQuery = countQuery.Where(filter)
		pageQuery = pageQuery.Where(filter)
	}
	if offset > 0 {
		pageQuery = pageQuery.Offset(offset)
	}
	if limit > 0 {
		pageQuery = pageQuery.Limit(limit)
	} else {
		pageQuery = pageQuery.Limit(10)
	}

	countSQL, countVals, err := countQuery.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	pageSQL, pageVals, err := pageQuery.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	// Fetch the total amount of shops that match the given search term
	var n uint64
	if err := repo.db.QueryRow(ctx, countSQL, countVals...).Scan(&n); err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return []*shop.Shop{}, 0, nil
	}

	// Fetch the shop objects themselves
	rows, err := repo.db.Query(ctx, pageSQL, pageVals...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*shop.Shop{}, n, nil
		}
		return nil, 0, err
	}
	defer rows.Close()

	objs := []*shop.Shop{}
	for rows.Next() {
		obj, err := repo.rowToShop(rows)
		if err != nil {
			return nil, 0, err
		}
		objs = append(objs, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return objs, n, nil
}

// GetPageByDistance retrieves one window of shops ranked by their distance to
// the given coordinates by calling the corresponding SQL procedure.
// The procedure replicates the total window count on every row; the first
// row's value is reported as the page total (0 when the window is empty).
func (repo *ShopRepository) GetPageByDistance(ctx context.Context, lat, lng float64, offset, limit uint64) (*shop.RankedPage, error) {
	rows, err := repo.db.Query(
		ctx,
		"SELECT fhrs_id, business_name, address, postcode, latitude, longitude, distance_miles, total_count FROM get_shops_with_distance($1, $2, $3, $4)",
		lat, lng, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return repo.rowsToRankedPage(rows)
}

// GetPageByDistanceAndSearch behaves like GetPageByDistance but restricts the
// row set to full-text matches of the given search term first
func (repo *ShopRepository) GetPageByDistanceAndSearch(ctx context.Context, lat, lng float64, search string, offset, limit uint64) (*shop.RankedPage, error) {
	rows, err := repo.db.Query(
		ctx,
		"SELECT fhrs_id, business_name, address, postcode, latitude, longitude, distance_miles, total_count FROM get_shops_with_distance_and_search($1, $2, $3, $4, $5)",
		lat, lng, search, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return repo.rowsToRankedPage(rows)
}

// GetByID retrieves a shop by its FHRS ID
func (repo *ShopRepository) GetByID(ctx context.Context, fhrsID int64) (*shop.Shop, error) {
	sql, vals, err := squirrel.Select(shopColumns...).
		From("shops").
		Where(squirrel.Eq{"fhrs_id": fhrsID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	obj, err := repo.rowToShop(repo.db.QueryRow(ctx, sql, vals...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// UpsertBatch inserts the given shops, replacing rows that already exist under
// the same FHRS ID
func (repo *ShopRepository) UpsertBatch(ctx context.Context, shops []*shop.Shop) error {
	txn, err := repo.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer txn.Rollback(ctx)

	for _, obj := range shops {
		_, err := txn.Exec(
			ctx,
			`INSERT INTO shops (fhrs_id, business_name, address, postcode, rating_value, rating_key, business_type, latitude, longitude, last_seen_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (fhrs_id) DO UPDATE SET
				business_name = excluded.business_name,
				address = excluded.address,
				postcode = excluded.postcode,
				rating_value = excluded.rating_value,
				rating_key = excluded.rating_key,
				business_type = excluded.business_type,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				last_seen_at = excluded.last_seen_at`,
			obj.FHRSID,
			obj.BusinessName,
			obj.Address,
			obj.Postcode,
			obj.RatingValue,
			obj.RatingKey,
			obj.BusinessType,
			obj.Latitude,
			obj.Longitude,
			obj.LastSeenAt,
		)
		if err != nil {
			return err
		}
	}

	return txn.Commit(ctx)
}

// DeleteLastSeenBefore removes every shop whose last_seen_at timestamp is
// older than the given cutoff and reports how many rows were swept
func (repo *ShopRepository) DeleteLastSeenBefore(ctx context.Context, cutoff int64) (uint64, error) {
	tag, err := repo.db.Exec(ctx, "DELETE FROM shops WHERE last_seen_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return uint64(tag.RowsAffected()), nil
}

func (repo *ShopRepository) rowToShop(row pgx.Row) (*shop.Shop, error) {
	obj := new(shop.Shop)
	err := row.Scan(
		&obj.FHRSID,
		&obj.BusinessName,
		&obj.Address,
		&obj.Postcode,
		&obj.RatingValue,
		&obj.RatingKey,
		&obj.BusinessType,
		&obj.Latitude,
		&obj.Longitude,
		&obj.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (repo *ShopRepository) rowsToRankedPage(rows pgx.Rows) (*shop.RankedPage, error) {
	page := &shop.RankedPage{Shops: []*shop.Shop{}}
	for rows.Next() {
		obj := new(shop.Shop)
		var total uint64
		err := rows.Scan(
			&obj.FHRSID,
			&obj.BusinessName,
			&obj.Address,
			&obj.Postcode,
			&obj.Latitude,
			&obj.Longitude,
			&obj.DistanceMiles,
			&total,
		)
		if err != nil {
			return nil, err
		}
		if len(page.Shops) == 0 {
			page.Total = total
		}
		page.Shops = append(page.Shops, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return page, nil
}
