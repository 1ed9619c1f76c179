package inmem

import (
	"context"
	"fmt"
	"testing"

	"github.com/cluckmap/shop-server/internal/shop"
)

func newTestRepository(t *testing.T, shops []*shop.Shop) shop.Repository {
	t.Helper()
	driver := New()
	if err := driver.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize the driver: %v", err)
	}
	if err := driver.Shops().UpsertBatch(context.Background(), shops); err != nil {
		t.Fatalf("failed to seed shops: %v", err)
	}
	return driver.Shops()
}

func str(v string) *string   { return &v }
func f64(v float64) *float64 { return &v }

func seedShops(n int) []*shop.Shop {
	shops := make([]*shop.Shop, 0, n)
	for i := 0; i < n; i++ {
		shops = append(shops, &shop.Shop{
			FHRSID:       int64(i + 1),
			BusinessName: str(fmt.Sprintf("Chicken Shop %02d", i+1)),
			Address:      str(fmt.Sprintf("%d High Street", i+1)),
			Postcode:     str("E1 6AN"),
			LastSeenAt:   100,
		})
	}
	return shops
}

func TestShopRepositoryGetPage(t *testing.T) {
	repo := newTestRepository(t, seedShops(25))

	shops, n, err := repo.GetPage(context.Background(), 0, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 25 {
		t.Errorf("expected a total of 25, got %d", n)
	}
	if len(shops) != 10 {
		t.Fatalf("expected 10 shops, got %d", len(shops))
	}
	if *shops[0].BusinessName != "Chicken Shop 01" {
		t.Errorf("expected the alphabetically first shop, got %s", *shops[0].BusinessName)
	}

	shops, n, err = repo.GetPage(context.Background(), 20, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 25 || len(shops) != 5 {
		t.Errorf("expected the last page of 5 shops, got %d of %d", len(shops), n)
	}
	if *shops[4].BusinessName != "Chicken Shop 25" {
		t.Errorf("unexpected last shop: %s", *shops[4].BusinessName)
	}

	// An offset beyond the row set yields an empty page but keeps the count
	shops, n, err = repo.GetPage(context.Background(), 100, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 25 || len(shops) != 0 {
		t.Errorf("expected an empty page with a total of 25, got %d of %d", len(shops), n)
	}
}

func TestShopRepositoryGetPageSearch(t *testing.T) {
	shops := seedShops(5)
	shops[2].BusinessName = str("Wing Palace")
	repo := newTestRepository(t, shops)

	matches, n, err := repo.GetPage(context.Background(), 0, 10, "wing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(matches) != 1 {
		t.Fatalf("expected a single match, got %d of %d", len(matches), n)
	}
	if *matches[0].BusinessName != "Wing Palace" {
		t.Errorf("unexpected match: %s", *matches[0].BusinessName)
	}
}

func TestShopRepositoryGetPageByDistance(t *testing.T) {
	shops := []*shop.Shop{
		{FHRSID: 1, BusinessName: str("Far"), Latitude: f64(52.0), Longitude: f64(-0.5)},
		{FHRSID: 2, BusinessName: str("Near"), Latitude: f64(51.501), Longitude: f64(-0.101)},
		{FHRSID: 3, BusinessName: str("Unlocated")},
		{FHRSID: 4, BusinessName: str("Nearest"), Latitude: f64(51.5), Longitude: f64(-0.1)},
	}
	repo := newTestRepository(t, shops)

	page, err := repo.GetPageByDistance(context.Background(), 51.5, -0.1, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("expected a total of 3 located shops, got %d", page.Total)
	}
	if len(page.Shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(page.Shops))
	}
	expected := []int64{4, 2, 1}
	for i, obj := range page.Shops {
		if obj.FHRSID != expected[i] {
			t.Errorf("expected shop %d at position %d, got %d", expected[i], i, obj.FHRSID)
		}
		if obj.DistanceMiles == nil {
			t.Errorf("shop %d is missing its distance", obj.FHRSID)
		}
	}
	if *page.Shops[0].DistanceMiles >= *page.Shops[1].DistanceMiles {
		t.Error("distances must be ascending")
	}
}

func TestShopRepositoryGetPageByDistanceAndSearch(t *testing.T) {
	shops := []*shop.Shop{
		{FHRSID: 1, BusinessName: str("Wing Palace"), Latitude: f64(51.6), Longitude: f64(-0.2)},
		{FHRSID: 2, BusinessName: str("Fried Heaven"), Latitude: f64(51.5), Longitude: f64(-0.1)},
	}
	repo := newTestRepository(t, shops)

	page, err := repo.GetPageByDistanceAndSearch(context.Background(), 51.5, -0.1, "wing", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Shops) != 1 || page.Shops[0].FHRSID != 1 {
		t.Fatalf("expected only the matching shop, got %+v", page)
	}
}

func TestShopRepositoryGetPageByDistanceEmpty(t *testing.T) {
	repo := newTestRepository(t, nil)

	page, err := repo.GetPageByDistance(context.Background(), 51.5, -0.1, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 || len(page.Shops) != 0 {
		t.Errorf("expected an empty ranked page, got %+v", page)
	}
}

func TestShopRepositoryGetByID(t *testing.T) {
	repo := newTestRepository(t, seedShops(3))

	obj, err := repo.GetByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj == nil || *obj.BusinessName != "Chicken Shop 02" {
		t.Fatalf("unexpected shop: %+v", obj)
	}

	obj, err = repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != nil {
		t.Error("expected nil for an unknown FHRS ID")
	}
}

func TestShopRepositoryUpsertReplaces(t *testing.T) {
	repo := newTestRepository(t, seedShops(1))

	update := &shop.Shop{FHRSID: 1, BusinessName: str("Renamed"), LastSeenAt: 200}
	if err := repo.UpsertBatch(context.Background(), []*shop.Shop{update}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *obj.BusinessName != "Renamed" || obj.LastSeenAt != 200 {
		t.Errorf("the upsert must replace the existing row, got %+v", obj)
	}

	_, n, err := repo.GetPage(context.Background(), 0, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected a single row after the upsert, got %d", n)
	}
}

func TestShopRepositoryDeleteLastSeenBefore(t *testing.T) {
	shops := seedShops(3)
	shops[1].LastSeenAt = 50 // stale
	repo := newTestRepository(t, shops)

	deleted, err := repo.DeleteLastSeenBefore(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 swept row, got %d", deleted)
	}
	_, n, err := repo.GetPage(context.Background(), 0, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 remaining rows, got %d", n)
	}
}
