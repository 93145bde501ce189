package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/reference"
)

var referenceColumns = []string{"Name", "City", "Price", "Rating", "Address"}

// ImportStats describes one reference import.
type ImportStats struct {
	Imported int // rows written
	Skipped  int // malformed or duplicate rows
	Ignored  int // rows for cities outside the allow-list
}

// ReferenceImporter replaces the allow-listed cities' hotels with the reference dataset.
// Concurrent runs are collapsed into one: every import rewrites all allow-listed cities.
type ReferenceImporter struct {
	store  domain.HotelStore
	open   func() (io.ReadCloser, error)
	flight singleflight.Group
}

// NewReferenceImporter reads path, or the embedded dataset when path is empty.
func NewReferenceImporter(s domain.HotelStore, path string) *ReferenceImporter {
	open := func() (io.ReadCloser, error) { return io.NopCloser(reference.Hotels()), nil }
	if path != "" {
		open = func() (io.ReadCloser, error) { return os.Open(path) }
	}
	return &ReferenceImporter{store: s, open: open}
}

// NewReferenceImporterFrom reads the dataset from open on every import.
func NewReferenceImporterFrom(s domain.HotelStore, open func() (io.ReadCloser, error)) *ReferenceImporter {
	return &ReferenceImporter{store: s, open: open}
}

// Import reports whether any row was imported. Only a failed store transaction is returned as
// an error; an unreadable dataset is logged and reported as nothing imported.
func (i *ReferenceImporter) Import(ctx context.Context) (bool, error) {
	st, err := i.Run(ctx)
	if err != nil {
		return false, err
	}
	return st.Imported > 0, nil
}

// Run is Import with row counts. Callers arriving while a run is in flight wait for it and
// share its result.
func (i *ReferenceImporter) Run(ctx context.Context) (ImportStats, error) {
	v, err, shared := i.flight.Do("reference", func() (any, error) { return i.run(ctx) })
	if shared {
		log.Debug().Msg("joined in-flight reference import")
	}
	st, _ := v.(ImportStats)
	return st, err
}

func (i *ReferenceImporter) run(ctx context.Context) (ImportStats, error) {
	rc, err := i.open()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Error().Err(err).Msg("reference dataset not found")
		} else {
			log.Error().Err(err).Msg("open reference dataset failed")
		}
		return ImportStats{}, nil
	}
	defer rc.Close()

	recs, st, err := ParseReference(rc)
	if err != nil {
		log.Error().Err(err).Msg("read reference dataset failed")
		return ImportStats{}, nil
	}
	if len(recs) == 0 {
		log.Warn().Int("skipped", st.Skipped).Int("ignored", st.Ignored).Msg("reference dataset has no valid rows")
		observability.ObserveImport(0, st.Skipped)
		return st, nil
	}

	if err := i.store.ReplaceCities(ctx, domain.SupportedCities, recs); err != nil {
		return ImportStats{}, fmt.Errorf("replace reference hotels: %w", err)
	}
	st.Imported = len(recs)
	observability.ObserveImport(st.Imported, st.Skipped)
	log.Info().Int("imported", st.Imported).Int("skipped", st.Skipped).Int("ignored", st.Ignored).
		Msg("reference dataset imported")
	return st, nil
}

// ParseReference reads a Name,City,Price,Rating,Address CSV. Columns are found by header name.
// Bad rows are skipped and counted; only an unreadable header is an error.
func ParseReference(r io.Reader) ([]domain.HotelRecord, ImportStats, error) {
	var st ImportStats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, st, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for idx, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		col[strings.ToLower(h)] = idx
	}
	for _, want := range referenceColumns {
		if _, ok := col[strings.ToLower(want)]; !ok {
			return nil, st, fmt.Errorf("missing column %q", want)
		}
	}
	cell := func(row []string, name string) (string, bool) {
		idx := col[strings.ToLower(name)]
		if idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	var out []domain.HotelRecord
	seen := map[string]struct{}{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			log.Warn().Err(err).Int("line", line).Msg("skipping unparseable reference row")
			st.Skipped++
			continue
		}
		if err != nil {
			return nil, st, err
		}

		rec, ok, why := referenceRow(row, cell)
		switch {
		case why == "ignored":
			st.Ignored++
			continue
		case !ok:
			log.Warn().Int("line", line).Str("reason", why).Msg("skipping reference row")
			st.Skipped++
			continue
		}
		k := dedupKey(rec.Name, rec.City)
		if _, dup := seen[k]; dup {
			log.Warn().Int("line", line).Str("name", rec.Name).Msg("skipping duplicate reference row")
			st.Skipped++
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out, st, nil
}

func referenceRow(row []string, cell func([]string, string) (string, bool)) (domain.HotelRecord, bool, string) {
	name, ok1 := cell(row, "Name")
	city, ok2 := cell(row, "City")
	priceS, ok3 := cell(row, "Price")
	ratingS, ok4 := cell(row, "Rating")
	addr, ok5 := cell(row, "Address")
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return domain.HotelRecord{}, false, "missing column"
	}
	if name == "" {
		return domain.HotelRecord{}, false, "empty name"
	}
	canon, supported := domain.CanonicalCity(city)
	if !supported {
		return domain.HotelRecord{}, false, "ignored"
	}
	price, ok := parseFloatStrict(priceS)
	if !ok {
		return domain.HotelRecord{}, false, "non-numeric price"
	}
	rating, ok := parseFloatStrict(ratingS)
	if !ok {
		return domain.HotelRecord{}, false, "non-numeric rating"
	}
	desc := domain.ReferenceDescription(canon)
	return domain.HotelRecord{
		Name:        clip(name, maxNameLen),
		City:        canon,
		Price:       &price,
		Rating:      &rating,
		Address:     ptrStr(clip(addr, maxAddressLen)),
		Description: &desc,
	}, true, ""
}
