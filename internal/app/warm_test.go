package app_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

type slowResolver struct {
	inFlight, peak int32
	mu             sync.Mutex
	seen           []string
}

func (s *slowResolver) Resolve(ctx context.Context, city string) []domain.HotelRecord {
	n := atomic.AddInt32(&s.inFlight, 1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)

	s.mu.Lock()
	s.seen = append(s.seen, city)
	s.mu.Unlock()
	return make([]domain.HotelRecord, len(city))
}

func TestWarm_BoundsConcurrency(t *testing.T) {
	r := &slowResolver{}
	cities := []string{"Fes", "Rabat", "Agadir", "Tangier", "Paris", "Rome", "Tokyo"}

	got := app.Warm(context.Background(), r, cities, 2)

	if len(got) != len(cities) || len(r.seen) != len(cities) {
		t.Fatalf("expected every city resolved, got %v", got)
	}
	if got["Rabat"] != len("Rabat") {
		t.Fatalf("count for Rabat: got %d", got["Rabat"])
	}
	if p := atomic.LoadInt32(&r.peak); p > 2 {
		t.Fatalf("expected at most 2 concurrent resolutions, saw %d", p)
	}
}

func TestWarm_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := app.Warm(ctx, &slowResolver{}, []string{"Fes", "Rabat"}, 1)
	if len(got) != 0 {
		t.Fatalf("expected nothing resolved after cancel, got %v", got)
	}
}

func TestWarm_AllowListedCitiesShareOneImport(t *testing.T) {
	csv := "Name,City,Price,Rating,Address\n" +
		"Riad Rabat,Rabat,80,8,X\nRiad Fes,Fes,70,8,X\nAgadir Beach,Agadir,90,7,X\nTangier Inn,Tangier,60,7,X\n"
	store := &fakeStore{replaceDelay: 50 * time.Millisecond}
	src := &fakeSource{err: &domain.FetchError{Kind: domain.FetchHTTPStatus, Status: 403}}
	imp := app.NewReferenceImporterFrom(store, csvSource(csv))
	r := app.NewResolver(store, src, imp, app.DefaultLocalThreshold)

	got := app.Warm(context.Background(), r, []string{"Rabat", "Fes", "Agadir", "Tangier"}, 4)

	for _, c := range []string{"Rabat", "Fes", "Agadir", "Tangier"} {
		if got[c] != 1 {
			t.Fatalf("%s: expected the reference hotel, got %d (all: %v)", c, got[c], got)
		}
	}
	if p := atomic.LoadInt32(&store.replacePeak); p != 1 {
		t.Fatalf("reference imports overlapped: peak=%d", p)
	}
}
