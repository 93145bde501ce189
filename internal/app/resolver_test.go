package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func cands(n int) []domain.Candidate {
	out := make([]domain.Candidate, n)
	for i := range out {
		out[i] = domain.Candidate{Name: fmt.Sprintf("Hotel %d", i), Price: pfloat(float64(100 + i))}
	}
	return out
}

func TestResolve_EnoughStoredSkipsFetch(t *testing.T) {
	store := &fakeStore{}
	store.seed("Paris", "A", "B", "C", "D", "E")
	src := &fakeSource{cands: cands(3)}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Paris")
	if src.calls != 0 {
		t.Fatalf("expected no fetch, got %d", src.calls)
	}
	if len(got) != 5 {
		t.Fatalf("expected the 5 stored hotels, got %d", len(got))
	}
	for i, want := range []string{"A", "B", "C", "D", "E"} {
		if got[i].Name != want {
			t.Fatalf("order: got %q at %d, want %q", got[i].Name, i, want)
		}
	}
}

func TestResolve_FetchesAndStoresNewCity(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{cands: cands(10)}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), " Tokyo ")
	if len(got) != 10 || store.inserts != 10 {
		t.Fatalf("expected 10 returned and inserted, got %d/%d", len(got), store.inserts)
	}
	for _, h := range got {
		if h.City != "Tokyo" {
			t.Fatalf("stored city should be the trimmed input, got %q", h.City)
		}
	}
	if got[0].Price == nil || *got[0].Price != 100 {
		t.Fatalf("price not carried over: %+v", got[0])
	}
}

func TestResolve_TwiceDoesNotDoubleInsert(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{cands: cands(3)}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	first := r.Resolve(context.Background(), "Dubai")
	second := r.Resolve(context.Background(), "Dubai")

	if len(first) != 3 {
		t.Fatalf("first resolve: got %d", len(first))
	}
	if store.inserts != 3 {
		t.Fatalf("expected 3 inserts total, got %d", store.inserts)
	}
	// second call: 3 stored (< threshold) so the source is asked again, but nothing new is stored
	if src.calls != 2 || len(second) != 3 {
		t.Fatalf("second resolve: calls=%d len=%d", src.calls, len(second))
	}
}

func TestResolve_DuplicateNamesInOneFetch(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{cands: []domain.Candidate{{Name: "Same"}, {Name: "Same"}, {Name: "  "}, {Name: "Other"}}}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Rome")
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct hotels, got %+v", got)
	}
}

func TestResolve_CaseInsensitiveSubstringMatch(t *testing.T) {
	store := &fakeStore{}
	store.seed("Marrakech", "Riad Atlas")
	src := &fakeSource{}
	imp := &fakeImporter{store: store}
	r := app.NewResolver(store, src, imp, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "marrakech")
	if len(got) != 1 || got[0].Name != "Riad Atlas" {
		t.Fatalf("expected Riad Atlas, got %+v", got)
	}
	if imp.calls != 0 {
		t.Fatalf("import must not run when something was found")
	}
}

func TestResolve_FetchFailureFallsBackToReference(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{err: &domain.FetchError{Kind: domain.FetchHTTPStatus, Status: 503}}
	desc := domain.ReferenceDescription("Agadir")
	imp := &fakeImporter{store: store, rows: []domain.HotelRecord{
		{Name: "Sofitel Agadir", City: "Agadir", Price: pfloat(150), Rating: pfloat(8.9), Description: &desc},
	}}
	r := app.NewResolver(store, src, imp, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "agadir")
	if imp.calls != 1 {
		t.Fatalf("expected one import, got %d", imp.calls)
	}
	if len(got) != 1 || got[0].Name != "Sofitel Agadir" || deref(got[0].Description) != "Hotel in Agadir, Morocco" {
		t.Fatalf("unexpected reference result: %+v", got)
	}
}

func TestResolve_UnsupportedCityNeverImports(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{err: &domain.FetchError{Kind: domain.FetchTimeout}}
	imp := &fakeImporter{store: store}
	r := app.NewResolver(store, src, imp, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Atlantis")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil result, got %#v", got)
	}
	if imp.calls != 0 {
		t.Fatalf("import ran for a city outside the allow-list")
	}
}

func TestResolve_ImportErrorStillRequeries(t *testing.T) {
	store := &fakeStore{}
	store.seed("Elsewhere", "X")
	imp := &fakeImporter{store: store, err: errBoom}
	r := app.NewResolver(store, &fakeSource{}, imp, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Fes")
	if imp.calls != 1 || len(got) != 0 {
		t.Fatalf("calls=%d got=%+v", imp.calls, got)
	}
}

func TestResolve_StoreFailureYieldsEmpty(t *testing.T) {
	store := &fakeStore{failGet: errBoom}
	src := &fakeSource{cands: cands(2)}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Paris")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
	if src.calls != 0 {
		t.Fatalf("source must not be consulted after a store failure")
	}
}

func TestResolve_InsertFailureYieldsEmpty(t *testing.T) {
	store := &fakeStore{failTx: errBoom}
	store.seed("Lima", "Stored One")
	r := app.NewResolver(store, &fakeSource{cands: cands(2)}, nil, app.DefaultLocalThreshold)

	if got := r.Resolve(context.Background(), "Lima"); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestResolve_StoredThenFetchedOrder(t *testing.T) {
	store := &fakeStore{}
	store.seed("Cairo", "Old One")
	r := app.NewResolver(store, &fakeSource{cands: []domain.Candidate{{Name: "Old One"}, {Name: "New One"}}}, nil, 5)

	got := r.Resolve(context.Background(), "Cairo")
	if len(got) != 2 || got[0].Name != "Old One" || got[1].Name != "New One" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestResolve_OverlongListingTextIsClipped(t *testing.T) {
	store := &fakeStore{}
	store.seed("Lisbon", "Stored One", "Stored Two")
	long := strings.Repeat("é", 300)
	src := &fakeSource{cands: []domain.Candidate{
		{Name: "Pestana Palace", Address: ptr(long), Description: ptr(strings.Repeat("x", 70000))},
		{Name: strings.Repeat("N", 300)},
	}}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), "Lisbon")
	if len(got) != 4 || store.inserts != 2 {
		t.Fatalf("expected stored matches plus both candidates, got %d (inserts %d)", len(got), store.inserts)
	}
	if n := utf8.RuneCountInString(deref(got[2].Address)); n != 255 {
		t.Fatalf("address should be clipped to 255 characters, got %d", n)
	}
	if n := utf8.RuneCountInString(got[3].Name); n != 255 {
		t.Fatalf("name should be clipped to 255 characters, got %d", n)
	}
}

func TestResolve_OverlongCityStoresNothing(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{cands: cands(3)}
	r := app.NewResolver(store, src, nil, app.DefaultLocalThreshold)

	got := r.Resolve(context.Background(), strings.Repeat("a", 101))
	if len(got) != 0 || store.inserts != 0 {
		t.Fatalf("expected nothing stored for an unstorable city, got %d (inserts %d)", len(got), store.inserts)
	}
}
