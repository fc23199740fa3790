// Package airports resolves airport codes to display cities using a
// static airports.json dataset (ourairports.com extract). Lookup order
// mirrors the code shape: ICAO for four characters, IATA for three, then
// the raw ident as a fallback.
package airports

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Airport is one row of the airports dataset. Only the fields the
// dashboard needs are decoded.
type Airport struct {
	Ident        string `json:"ident"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Municipality string `json:"municipality"`
	ISOCountry   string `json:"iso_country"`
	ICAOCode     string `json:"icao_code"`
	IATACode     string `json:"iata_code"`
}

// Index provides code lookups over the loaded dataset.
// Built once at process start; read-only afterwards.
type Index struct {
	byICAO  map[string]*Airport
	byIATA  map[string]*Airport
	byIdent map[string]*Airport
}

// Load reads the airports dataset from a JSON file and builds the index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading airports dataset: %w", err)
	}

	var airports []Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, fmt.Errorf("parsing airports dataset: %w", err)
	}

	return NewIndex(airports), nil
}

// NewIndex builds an index over an already-decoded dataset.
func NewIndex(airports []Airport) *Index {
	idx := &Index{
		byICAO:  make(map[string]*Airport, len(airports)),
		byIATA:  make(map[string]*Airport, len(airports)),
		byIdent: make(map[string]*Airport, len(airports)),
	}
	for i := range airports {
		a := &airports[i]
		if a.ICAOCode != "" {
			idx.byICAO[strings.ToUpper(a.ICAOCode)] = a
		}
		if a.IATACode != "" {
			idx.byIATA[strings.ToUpper(a.IATACode)] = a
		}
		if a.Ident != "" {
			idx.byIdent[strings.ToUpper(a.Ident)] = a
		}
	}
	return idx
}

// Find resolves a code to an airport, or nil when unknown.
// Four-character codes try ICAO first, three-character codes try IATA,
// and the raw ident is the fallback for both.
func (idx *Index) Find(code string) *Airport {
	if code == "" {
		return nil
	}
	upper := strings.ToUpper(code)

	if len(upper) == 4 {
		if a, ok := idx.byICAO[upper]; ok {
			return a
		}
	}
	if len(upper) == 3 {
		if a, ok := idx.byIATA[upper]; ok {
			return a
		}
	}
	return idx.byIdent[upper]
}

// City returns the display city for an airport: municipality when set,
// else the airport name, else "Unknown City".
func City(a *Airport) string {
	if a == nil {
		return "Unknown City"
	}
	if a.Municipality != "" {
		return a.Municipality
	}
	if a.Name != "" {
		return a.Name
	}
	return "Unknown City"
}
