package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_finder/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so vectors show up in the exposition
	observability.ObserveHTTP("/v1/hotels", "GET", 200, 12*time.Millisecond)
	observability.ObserveResolved("store", 3)
	observability.ObserveListingError("shape")
	observability.ObserveImport(2, 1)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"hotels_http_requests_total",
		`hotels_resolved_hotels_total{source="store"}`,
		`hotels_listing_errors_total{kind="shape"}`,
		`hotels_reference_import_rows_total{outcome="skipped"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestObserveResolved_IgnoresZero(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveResolved("reference-never", 0)

	rr := httptest.NewRecorder()
	observability.MetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if strings.Contains(rr.Body.String(), "reference-never") {
		t.Fatalf("zero observation should not create a series")
	}
}
