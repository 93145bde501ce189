package app

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"hotel_finder/internal/domain"
)

/********** tiny helpers **********/

// Column widths of the hotels table, in characters. description is TEXT: 65535 bytes, so at most
// 16383 four-byte runes.
const (
	maxNameLen        = 255
	maxCityLen        = 100
	maxAddressLen     = 255
	maxDescriptionLen = 16383
)

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func clipPtr(p *string, n int) *string {
	if p == nil {
		return nil
	}
	return ptrStr(clip(*p, n))
}

func ptrStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// parseFloatStrict parses a required numeric cell ("80", " 8.5 ").
func parseFloatStrict(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// dedupKey identifies a hotel within a city.
func dedupKey(name, city string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "\x00" + strings.TrimSpace(name)
}

/********** candidate mapper **********/

// mapCandidates turns scraped candidates into records for city, dropping nameless ones and
// repeats of a name already seen in the batch. Text is clipped to the column widths; a city too
// long to store yields nothing.
func mapCandidates(city string, in []domain.Candidate) []domain.HotelRecord {
	if utf8.RuneCountInString(city) > maxCityLen {
		return nil
	}
	out := make([]domain.HotelRecord, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		name := clip(strings.TrimSpace(c.Name), maxNameLen)
		if name == "" {
			continue
		}
		k := dedupKey(name, city)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, domain.HotelRecord{
			Name:        name,
			City:        city,
			Price:       c.Price,
			Rating:      c.Rating,
			Address:     clipPtr(ptrStr(deref(c.Address)), maxAddressLen),
			Description: clipPtr(ptrStr(deref(c.Description)), maxDescriptionLen),
		})
	}
	return out
}
