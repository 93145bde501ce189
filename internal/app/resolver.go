package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

// DefaultLocalThreshold is the number of stored matches below which the listing source is consulted.
const DefaultLocalThreshold = 5

// Resolver turns a city name into hotels: store first, then the listing source, then the
// reference dataset.
type Resolver struct {
	store     domain.HotelStore
	listings  domain.ListingSource
	importer  domain.ReferenceImporter
	threshold int
}

// NewResolver wires a resolver. listings and importer may be nil to disable those sources.
func NewResolver(s domain.HotelStore, l domain.ListingSource, imp domain.ReferenceImporter, threshold int) *Resolver {
	if threshold <= 0 {
		threshold = DefaultLocalThreshold
	}
	return &Resolver{store: s, listings: l, importer: imp, threshold: threshold}
}

// Resolve never fails: source errors are logged and count as zero results. The result is stored
// matches in store order followed by newly discovered hotels; it is empty, never nil, when
// nothing is found.
func (r *Resolver) Resolve(ctx context.Context, city string) []domain.HotelRecord {
	city = strings.TrimSpace(city)
	lg := log.With().Str("city", city).Logger()

	local, err := r.store.SearchByCity(ctx, city)
	if err != nil {
		lg.Error().Err(err).Msg("hotel store query failed")
		return []domain.HotelRecord{}
	}
	out := append(make([]domain.HotelRecord, 0, len(local)), local...)
	observability.ObserveResolved("store", len(local))

	if len(local) < r.threshold && r.listings != nil {
		fresh, err := r.fromListings(ctx, city)
		if err != nil {
			lg.Error().Err(err).Msg("storing listing hotels failed")
			return []domain.HotelRecord{}
		}
		out = append(out, fresh...)
	}

	if len(out) > 0 {
		return out
	}
	if _, ok := domain.CanonicalCity(city); !ok || r.importer == nil {
		return out
	}

	lg.Info().Msg("nothing found, importing reference dataset")
	if imported, err := r.importer.Import(ctx); err != nil {
		lg.Error().Err(err).Msg("reference import failed")
	} else if !imported {
		lg.Warn().Msg("reference import added nothing")
	}
	ref, err := r.store.SearchByCity(ctx, city)
	if err != nil {
		lg.Error().Err(err).Msg("hotel store query failed after import")
		return []domain.HotelRecord{}
	}
	observability.ObserveResolved("reference", len(ref))
	return append(out, ref...)
}

// fromListings fetches candidates and stores the ones not already known. A fetch failure yields
// no hotels and no error; only a store failure is returned.
func (r *Resolver) fromListings(ctx context.Context, city string) ([]domain.HotelRecord, error) {
	cands, err := r.listings.Fetch(ctx, city)
	if err != nil {
		kind := domain.FetchErrorKind(err)
		observability.ObserveListingError(string(kind))
		log.Warn().Err(err).Str("city", city).Str("kind", string(kind)).Msg("listing source unavailable")
		return nil, nil
	}
	recs := mapCandidates(city, cands)
	if len(recs) == 0 {
		return nil, nil
	}
	inserted, err := r.store.InsertMissing(ctx, recs)
	if err != nil {
		return nil, err
	}
	observability.ObserveResolved("listing", len(inserted))
	log.Debug().Str("city", city).Int("fetched", len(recs)).Int("inserted", len(inserted)).Msg("listing hotels stored")
	return inserted, nil
}
