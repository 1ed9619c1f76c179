package datasync

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cluckmap/shop-server/internal/fsa"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultSearchTerm is the establishment name term the FSA API is queried with
const DefaultSearchTerm = "chicken"

// DefaultRequestDelay is the pause between two authority requests
const DefaultRequestDelay = 200 * time.Millisecond

// DefaultAuthorityIDs holds the FSA IDs of the 33 London local authorities
var DefaultAuthorityIDs = authorityRange(93, 125)

// defaultBusinessTypeIDs restricts the row set to takeaways (7844) and
// restaurants (1)
var defaultBusinessTypeIDs = []int{7844, 1}

// Service periodically mirrors the FSA establishment records into the shop repository
type Service struct {
	Client          *fsa.Client
	Shops           shop.Repository
	SearchTerm      string
	AuthorityIDs    []int
	BusinessTypeIDs []int
	RequestDelay    time.Duration
}

// Stats summarizes a single synchronization run
type Stats struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Fetched   int
	Kept      int
	Deleted   uint64
}

// Run performs one full synchronization: it fetches every matching
// establishment of the configured authorities, upserts the relevant ones and
// sweeps rows that were not part of this run anymore.
// Authorities whose fetch fails are skipped so that one flaky response does
// not abort the whole run.
func (service *Service) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
	logger := log.With().Str("run_id", stats.RunID.String()).Logger()
	logger.Info().Msg("starting shop synchronization...")

	searchTerm := service.SearchTerm
	if searchTerm == "" {
		searchTerm = DefaultSearchTerm
	}
	authorityIDs := service.AuthorityIDs
	if len(authorityIDs) == 0 {
		authorityIDs = DefaultAuthorityIDs
	}

	establishments := []*fsa.Establishment{}
	for i, authorityID := range authorityIDs {
		if i > 0 {
			if err := service.pause(ctx); err != nil {
				return nil, err
			}
		}
		batch, err := service.Client.EstablishmentsByAuthority(ctx, searchTerm, authorityID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn().Err(err).Int("authority_id", authorityID).Msg("skipping authority")
			continue
		}
		establishments = append(establishments, batch...)
	}
	stats.Fetched = len(establishments)

	shops := service.relevantShops(establishments, stats.StartedAt.Unix())
	stats.Kept = len(shops)
	if len(shops) == 0 {
		// Leaving the row set untouched beats sweeping everything after a
		// run that came back empty
		logger.Warn().Int("fetched", stats.Fetched).Msg("no relevant shops found; skipping upsert and sweep")
		return stats, nil
	}

	if err := service.Shops.UpsertBatch(ctx, shops); err != nil {
		return nil, err
	}
	deleted, err := service.Shops.DeleteLastSeenBefore(ctx, stats.StartedAt.Unix())
	if err != nil {
		return nil, err
	}
	stats.Deleted = deleted

	logger.Info().
		Int("fetched", stats.Fetched).
		Int("kept", stats.Kept).
		Uint64("deleted", stats.Deleted).
		Msg("shop synchronization finished.")
	return stats, nil
}

// relevantShops filters the fetched establishments down to the configured
// business types and maps them to shop rows stamped with the run start
func (service *Service) relevantShops(establishments []*fsa.Establishment, lastSeenAt int64) []*shop.Shop {
	businessTypeIDs := service.BusinessTypeIDs
	if len(businessTypeIDs) == 0 {
		businessTypeIDs = defaultBusinessTypeIDs
	}

	shops := []*shop.Shop{}
	seen := map[int64]struct{}{}
	for _, establishment := range establishments {
		if !containsInt(businessTypeIDs, establishment.BusinessTypeID) {
			continue
		}
		if _, ok := seen[establishment.FHRSID]; ok {
			continue
		}
		seen[establishment.FHRSID] = struct{}{}
		shops = append(shops, shopOf(establishment, lastSeenAt))
	}
	return shops
}

func (service *Service) pause(ctx context.Context) error {
	delay := service.RequestDelay
	if delay <= 0 {
		delay = DefaultRequestDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// shopOf maps an FSA establishment record to a shop row
func shopOf(establishment *fsa.Establishment, lastSeenAt int64) *shop.Shop {
	obj := &shop.Shop{
		FHRSID:       establishment.FHRSID,
		BusinessName: optional(establishment.BusinessName),
		Address:      optional(joinAddress(establishment)),
		Postcode:     optional(establishment.PostCode),
		RatingValue:  optional(establishment.RatingValue),
		RatingKey:    optional(establishment.RatingKey),
		BusinessType: optional(establishment.BusinessType),
		LastSeenAt:   lastSeenAt,
	}
	if establishment.Geocode != nil {
		obj.Latitude = coordinate(establishment.Geocode.Latitude)
		obj.Longitude = coordinate(establishment.Geocode.Longitude)
	}
	return obj
}

// joinAddress concatenates the non-empty address lines of an establishment
func joinAddress(establishment *fsa.Establishment) string {
	lines := []string{}
	for _, line := range []string{
		establishment.AddressLine1,
		establishment.AddressLine2,
		establishment.AddressLine3,
		establishment.AddressLine4,
	} {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, ", ")
}

func optional(val string) *string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	return &val
}

// coordinate parses one geocode component; malformed values degrade to an
// absent coordinate
func coordinate(raw string) *float64 {
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &val
}

func containsInt(haystack []int, needle int) bool {
	for _, val := range haystack {
		if val == needle {
			return true
		}
	}
	return false
}

func authorityRange(from, to int) []int {
	ids := make([]int, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}
