package domain

import "strings"

// HotelRecord is one stored hotel. Nil pointers mean "unknown", never zero.
type HotelRecord struct {
	ID          int64    `json:"-"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
}

// Candidate is a hotel as scraped from the listing source, before it has a city or an id.
type Candidate struct {
	Name        string
	Price       *float64
	Rating      *float64
	Address     *string
	Description *string
}

// SupportedCities is the allow-list of cities backed by the reference dataset.
var SupportedCities = []string{"Casablanca", "Rabat", "Agadir", "Marrakech", "Tangier", "Fes", "Essaouira"}

// CanonicalCity returns the allow-list spelling of city and whether it is supported.
func CanonicalCity(city string) (string, bool) {
	c := strings.TrimSpace(city)
	for _, s := range SupportedCities {
		if strings.EqualFold(s, c) {
			return s, true
		}
	}
	return "", false
}

// ReferenceDescription is the description synthesized for rows of the reference dataset.
func ReferenceDescription(city string) string {
	return "Hotel in " + city + ", Morocco"
}
