package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LISTING_URL", "")
	t.Setenv("RESOLVE_LOCAL_THRESHOLD", "")
	t.Setenv("WARM_CITIES", "")

	c := Load()
	if c.LocalThreshold != 5 {
		t.Fatalf("threshold: got %d", c.LocalThreshold)
	}
	if c.MaxCandidates != 10 {
		t.Fatalf("max candidates: got %d", c.MaxCandidates)
	}
	if c.ListingTimeout != 10*time.Second {
		t.Fatalf("timeout: got %s", c.ListingTimeout)
	}
	if len(c.WarmCities) != len(DefaultWarmCities) {
		t.Fatalf("warm cities: got %v", c.WarmCities)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RESOLVE_LOCAL_THRESHOLD", "3")
	t.Setenv("LISTING_PRE_DELAY_MAX_MS", "0")
	t.Setenv("IMPORT_ON_START", "true")
	t.Setenv("WARM_CITIES", " Rabat , ,Fes")
	t.Setenv("WARM_WORKERS", "not-a-number")

	c := Load()
	if c.LocalThreshold != 3 {
		t.Fatalf("threshold: got %d", c.LocalThreshold)
	}
	if c.PreDelayMax != 0 {
		t.Fatalf("pre delay max: got %s", c.PreDelayMax)
	}
	if !c.ImportOnStart {
		t.Fatalf("expected import on start")
	}
	if len(c.WarmCities) != 2 || c.WarmCities[0] != "Rabat" || c.WarmCities[1] != "Fes" {
		t.Fatalf("warm cities: got %v", c.WarmCities)
	}
	if c.Workers != 4 {
		t.Fatalf("workers should fall back to default, got %d", c.Workers)
	}
}
