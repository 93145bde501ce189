package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

// CachedListings memoises successful listing fetches per city. Failures and empty pages are
// never cached.
type CachedListings struct {
	next  domain.ListingSource
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedListings(next domain.ListingSource, c domain.Cache, ttl time.Duration) *CachedListings {
	return &CachedListings{next: next, cache: c, ttl: ttl}
}

func listingKey(city string) string {
	return "listings:" + strings.ToLower(strings.TrimSpace(city))
}

func (c *CachedListings) Fetch(ctx context.Context, city string) ([]domain.Candidate, error) {
	key := listingKey(city)
	var out []domain.Candidate
	ok, err := c.cache.Get(ctx, key, &out)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("listing cache get failed")
	}
	if ok {
		return out, nil
	}

	out, err = c.next.Fetch(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := c.cache.Set(ctx, key, out, int(c.ttl.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("listing cache set failed")
	}
	return out, nil
}
