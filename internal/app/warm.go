package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_finder/internal/domain"
)

type cityResolver interface {
	Resolve(ctx context.Context, city string) []domain.HotelRecord
}

// Warm resolves cities with at most workers resolutions in flight and returns the hotel count per
// city. It stops launching new work once ctx is done.
func Warm(ctx context.Context, r cityResolver, cities []string, workers int) map[string]int {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make(map[string]int, len(cities))
	)

	for _, city := range cities {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("warm-up interrupted")
			break
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("warm-up interrupted")
			break
		}
		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			defer sem.Release(1)

			n := len(r.Resolve(ctx, city))
			mu.Lock()
			out[city] = n
			mu.Unlock()
			log.Info().Str("city", city).Int("count", n).Msg("city warmed")
		}(city)
	}

	wg.Wait()
	return out
}
