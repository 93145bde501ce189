package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "hotels"

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

var (
	httpRequests = counter("http_requests_total", "Inbound requests served.", "route", "method", "status")
	httpDuration = histogram("http_request_duration_seconds", "Inbound request latency.",
		prometheus.DefBuckets, "route", "method")

	// upper buckets cover the listing client timeout
	listingRequests = counter("external_requests_total", "Outbound calls to third-party sources.",
		"service", "endpoint", "status")
	listingDuration = histogram("external_request_duration_seconds", "Outbound call latency.",
		[]float64{.1, .25, .5, 1, 2.5, 5, 10, 20}, "service", "endpoint")
	listingFailures = counter("listing_errors_total", "Listing fetches that yielded nothing, by cause.", "kind")

	cacheEvents   = counter("cache_events_total", "Listing cache activity.", "cache", "event")
	resolved      = counter("resolved_hotels_total", "Hotels returned by the resolver, by source.", "source")
	referenceRows = counter("reference_import_rows_total", "Reference CSV rows by outcome.", "outcome")
)

// InitRegistry returns a fresh registry carrying every hotel finder collector.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		httpRequests, httpDuration,
		listingRequests, listingDuration, listingFailures,
		cacheEvents, resolved, referenceRows,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Serve exposes reg on its own listener. An empty addr leaves it to the main router.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics listener up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
}

func ObserveHTTP(route, method string, status int, took time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

// ObserveExternal records an outbound call; status 0 means no response was received.
func ObserveExternal(service, endpoint string, status int, took time.Duration) {
	listingRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	listingDuration.WithLabelValues(service, endpoint).Observe(took.Seconds())
}

// ObserveCache counts hit, miss, set and del events.
func ObserveCache(cache, event string) { cacheEvents.WithLabelValues(cache, event).Inc() }

// ObserveResolved adds n hotels under source (store, listing or reference). Zero is not recorded.
func ObserveResolved(source string, n int) {
	if n <= 0 {
		return
	}
	resolved.WithLabelValues(source).Add(float64(n))
}

func ObserveListingError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	listingFailures.WithLabelValues(kind).Inc()
}

func ObserveImport(imported, skipped int) {
	referenceRows.WithLabelValues("imported").Add(float64(imported))
	referenceRows.WithLabelValues("skipped").Add(float64(skipped))
}
