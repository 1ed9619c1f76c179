package shop

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeRepository implements Repository with canned results for listing tests
type fakeRepository struct {
	shops      []*Shop
	pageErr    error
	rankedPage *RankedPage
	rankedErr  error

	lastSearch       string
	lastRankedSearch string
	pageCalls        int
	rankedCalls      int
}

func (repo *fakeRepository) GetPage(_ context.Context, offset, limit uint64, search string) ([]*Shop, uint64, error) {
	repo.pageCalls++
	repo.lastSearch = search
	if repo.pageErr != nil {
		return nil, 0, repo.pageErr
	}
	total := uint64(len(repo.shops))
	if offset >= total {
		return []*Shop{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return repo.shops[offset:end], total, nil
}

func (repo *fakeRepository) GetPageByDistance(_ context.Context, _, _ float64, _, _ uint64) (*RankedPage, error) {
	repo.rankedCalls++
	repo.lastRankedSearch = ""
	if repo.rankedErr != nil {
		return nil, repo.rankedErr
	}
	return repo.rankedPage, nil
}

func (repo *fakeRepository) GetPageByDistanceAndSearch(_ context.Context, _, _ float64, search string, _, _ uint64) (*RankedPage, error) {
	repo.rankedCalls++
	repo.lastRankedSearch = search
	if repo.rankedErr != nil {
		return nil, repo.rankedErr
	}
	return repo.rankedPage, nil
}

func (repo *fakeRepository) GetByID(_ context.Context, fhrsID int64) (*Shop, error) {
	for _, obj := range repo.shops {
		if obj.FHRSID == fhrsID {
			return obj, nil
		}
	}
	return nil, nil
}

func (repo *fakeRepository) UpsertBatch(_ context.Context, _ []*Shop) error {
	return nil
}

func (repo *fakeRepository) DeleteLastSeenBefore(_ context.Context, _ int64) (uint64, error) {
	return 0, nil
}

func makeShops(n int) []*Shop {
	shops := make([]*Shop, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Chicken Shop %02d", i+1)
		shops = append(shops, &Shop{FHRSID: int64(i + 1), BusinessName: &name})
	}
	return shops
}

func TestServiceFetchPage(t *testing.T) {
	repo := &fakeRepository{shops: makeShops(25)}
	service := NewService(repo)

	data, err := service.FetchPage(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Shops) != 10 {
		t.Errorf("expected 10 shops on page 1, got %d", len(data.Shops))
	}
	if data.Shops[0].DisplayName() != "Chicken Shop 01" {
		t.Errorf("unexpected first shop: %s", data.Shops[0].DisplayName())
	}
	expected := data.Pagination
	if expected.CurrentPage != 1 || expected.TotalPages != 3 || expected.TotalCount != 25 ||
		!expected.HasNextPage || expected.HasPreviousPage {
		t.Errorf("unexpected pagination state: %+v", expected)
	}

	data, err = service.FetchPage(context.Background(), 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Shops) != 5 {
		t.Errorf("expected 5 shops on page 3, got %d", len(data.Shops))
	}
	if data.Pagination.HasNextPage || !data.Pagination.HasPreviousPage {
		t.Errorf("unexpected pagination state: %+v", data.Pagination)
	}
}

func TestServiceFetchPageTrimsQuery(t *testing.T) {
	repo := &fakeRepository{shops: makeShops(3)}
	service := NewService(repo)

	if _, err := service.FetchPage(context.Background(), 1, "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch != "" {
		t.Errorf("whitespace-only query must not apply the full-text filter, got %q", repo.lastSearch)
	}

	if _, err := service.FetchPage(context.Background(), 1, "  wings "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch != "wings" {
		t.Errorf("expected trimmed search term 'wings', got %q", repo.lastSearch)
	}
}

func TestServiceFetchPageError(t *testing.T) {
	repo := &fakeRepository{pageErr: errors.New("connection refused")}
	service := NewService(repo)

	_, err := service.FetchPage(context.Background(), 1, "")
	if err == nil {
		t.Fatal("expected an error")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a *FetchError, got %T", err)
	}
	if err.Error() != "Failed to fetch shops: connection refused" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestServiceFetchPageNearby(t *testing.T) {
	distance := func(v float64) *float64 { return &v }
	ranked := &RankedPage{
		Shops: []*Shop{
			{FHRSID: 1, DistanceMiles: distance(0.3)},
			{FHRSID: 2, DistanceMiles: distance(0.7)},
			{FHRSID: 3, DistanceMiles: distance(1.2)},
		},
		Total: 3,
	}
	repo := &fakeRepository{shops: makeShops(25), rankedPage: ranked}
	service := NewService(repo)

	data, err := service.FetchPageNearby(context.Background(), Location{Latitude: 51.5, Longitude: -0.1}, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Pagination.TotalCount != 3 || data.Pagination.TotalPages != 1 {
		t.Errorf("expected the embedded total count of 3, got %+v", data.Pagination)
	}
	for _, obj := range data.Shops {
		if obj.DistanceMiles == nil {
			t.Errorf("shop %d is missing its distance", obj.FHRSID)
		}
	}
	if repo.pageCalls != 0 {
		t.Errorf("the plain query must not run when the distance procedure succeeds")
	}
}

func TestServiceFetchPageNearbySelectsSearchProcedure(t *testing.T) {
	repo := &fakeRepository{rankedPage: &RankedPage{Shops: []*Shop{}, Total: 0}}
	service := NewService(repo)

	if _, err := service.FetchPageNearby(context.Background(), Location{}, 1, " wings "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRankedSearch != "wings" {
		t.Errorf("expected the search+distance procedure with term 'wings', got %q", repo.lastRankedSearch)
	}
}

func TestServiceFetchPageNearbyEmptyRankedResult(t *testing.T) {
	repo := &fakeRepository{rankedPage: &RankedPage{Shops: []*Shop{}, Total: 0}}
	service := NewService(repo)

	data, err := service.FetchPageNearby(context.Background(), Location{}, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Pagination.TotalCount != 0 || data.Pagination.TotalPages != 0 {
		t.Errorf("an empty ranked window must yield a zero total, got %+v", data.Pagination)
	}
}

func TestServiceFetchPageNearbyFallsBack(t *testing.T) {
	// With the distance procedures permanently failing, the nearby fetch has
	// to produce exactly what the plain path produces
	repo := &fakeRepository{shops: makeShops(25), rankedErr: errors.New("function does not exist")}
	service := NewService(repo)

	nearby, err := service.FetchPageNearby(context.Background(), Location{Latitude: 51.5, Longitude: -0.1}, 2, "wings")
	if err != nil {
		t.Fatalf("distance failures must not surface: %v", err)
	}
	plain, err := service.FetchPage(context.Background(), 2, "wings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(nearby, plain) {
		t.Errorf("expected the degraded result to equal the plain fetch\nnearby: %+v\nplain: %+v", nearby, plain)
	}
}

func TestServiceFetchPageNearbyFallbackError(t *testing.T) {
	// Only the plain fetch's error may ever propagate
	repo := &fakeRepository{
		pageErr:   errors.New("connection refused"),
		rankedErr: errors.New("function does not exist"),
	}
	service := NewService(repo)

	_, err := service.FetchPageNearby(context.Background(), Location{}, 1, "")
	if err == nil {
		t.Fatal("expected an error")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a *FetchError, got %T", err)
	}
	if err.Error() != "Failed to fetch shops: connection refused" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestServiceList(t *testing.T) {
	repo := &fakeRepository{
		shops:      makeShops(25),
		rankedPage: &RankedPage{Shops: []*Shop{{FHRSID: 1}}, Total: 1},
	}
	service := NewService(repo)

	if _, err := service.List(context.Background(), 1, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.rankedCalls != 0 {
		t.Error("listing without a location must not invoke a distance procedure")
	}

	if _, err := service.List(context.Background(), 1, "", &Location{Latitude: 51.5, Longitude: -0.1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.rankedCalls != 1 {
		t.Error("listing with a location must invoke a distance procedure")
	}
}

func TestServiceListIdempotence(t *testing.T) {
	repo := &fakeRepository{shops: makeShops(25)}
	service := NewService(repo)

	first, err := service.List(context.Background(), 2, "wings", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.List(context.Background(), 2, "wings", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical calls against an unchanged store must yield equal results")
	}
}
