// Package reference bundles the Moroccan hotel dataset used by the bulk import.
package reference

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed hotels_morocco.csv
var hotelsCSV []byte

// Hotels returns a reader over the embedded dataset (header Name,City,Price,Rating,Address).
func Hotels() io.Reader { return bytes.NewReader(hotelsCSV) }
