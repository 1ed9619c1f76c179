package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/cluckmap/shop-server/internal/pagination"
	"github.com/rs/zerolog/log"
)

// FetchError represents a failure of the underlying store during a plain
// listing query. It is fatal to the listing call and is not retried.
type FetchError struct {
	Wrapping error
}

func (err *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch shops: %s", err.Wrapping.Error())
}

func (err *FetchError) Unwrap() error {
	return err.Wrapping
}

// ListData is the unified listing result: one page of shops plus the derived
// paging state. It is constructed fresh on every fetch.
type ListData struct {
	Shops      []*Shop          `json:"shops"`
	Pagination pagination.State `json:"pagination"`
}

// Service implements the shop listing operations on top of a repository
type Service struct {
	Shops Repository
}

// NewService creates a new shop listing service
func NewService(shops Repository) *Service {
	return &Service{Shops: shops}
}

// FetchPage retrieves one page of shops ordered by business name.
// A query whose trimmed form is non-empty restricts the page to full-text
// matches; whitespace-only queries behave like no query at all.
// Store failures surface as a *FetchError.
func (service *Service) FetchPage(ctx context.Context, page int, query string) (*ListData, error) {
	offset := uint64(pagination.Offset(page, pagination.PageSize))

	shops, n, err := service.Shops.GetPage(ctx, offset, pagination.PageSize, strings.TrimSpace(query))
	if err != nil {
		return nil, &FetchError{Wrapping: err}
	}

	return &ListData{
		Shops:      shops,
		Pagination: pagination.Calculate(int(n), page),
	}, nil
}

// fetchStrategy is a single attempt of the distance fallback chain
type fetchStrategy struct {
	name string
	run  func(ctx context.Context) (*ListData, error)
}

// FetchPageNearby retrieves one page of shops ranked by their distance to the
// given location, optionally restricted by a search query.
// The attempt order is an explicit strategy list: the matching distance
// procedure first, then the plain listing query with the same search term.
// Failures of the distance procedure are recovered internally and logged; the
// only error this method ever returns is the *FetchError of the final plain
// fetch. Losing the distance ranking is preferable to failing the request.
func (service *Service) FetchPageNearby(ctx context.Context, location Location, page int, query string) (*ListData, error) {
	search := strings.TrimSpace(query)
	offset := uint64(pagination.Offset(page, pagination.PageSize))

	ranked := fetchStrategy{
		name: "distance",
		run: func(ctx context.Context) (*ListData, error) {
			result, err := service.Shops.GetPageByDistance(ctx, location.Latitude, location.Longitude, offset, pagination.PageSize)
			if err != nil {
				return nil, err
			}
			return rankedToListData(result, page), nil
		},
	}
	if search != "" {
		ranked = fetchStrategy{
			name: "search+distance",
			run: func(ctx context.Context) (*ListData, error) {
				result, err := service.Shops.GetPageByDistanceAndSearch(ctx, location.Latitude, location.Longitude, search, offset, pagination.PageSize)
				if err != nil {
					return nil, err
				}
				return rankedToListData(result, page), nil
			},
		}
	}

	strategies := []fetchStrategy{
		ranked,
		{
			name: "plain",
			run: func(ctx context.Context) (*ListData, error) {
				return service.FetchPage(ctx, page, search)
			},
		},
	}

	var data *ListData
	var err error
	for i, strategy := range strategies {
		data, err = strategy.run(ctx)
		if err == nil {
			return data, nil
		}
		if i < len(strategies)-1 {
			log.Warn().
				Err(err).
				Str("strategy", strategy.name).
				Msg("distance ranking unavailable, falling back to the plain listing query")
		}
	}
	return nil, err
}

// List retrieves one page of shops using the fetch strategy matching the
// caller's input: the distance-ranked path when a location is present
// (an empty query is valid there and selects the distance-only procedure),
// the plain business name ordering otherwise.
func (service *Service) List(ctx context.Context, page int, query string, location *Location) (*ListData, error) {
	if location != nil {
		return service.FetchPageNearby(ctx, *location, page, query)
	}
	return service.FetchPage(ctx, page, query)
}

// rankedToListData maps a raw ranked procedure result into the unified listing
// shape. The total count comes from the count replicated on the result rows,
// not from a separate count query.
func rankedToListData(result *RankedPage, page int) *ListData {
	shops := result.Shops
	if shops == nil {
		shops = []*Shop{}
	}
	return &ListData{
		Shops:      shops,
		Pagination: pagination.Calculate(int(result.Total), page),
	}
}
