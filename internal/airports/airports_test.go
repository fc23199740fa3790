package airports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func testIndex() *Index {
	return NewIndex([]Airport{
		{Ident: "LEVC", Type: "large_airport", Name: "Valencia Airport", Municipality: "Valencia", ISOCountry: "ES", ICAOCode: "LEVC", IATACode: "VLC"},
		{Ident: "EGLL", Type: "large_airport", Name: "London Heathrow Airport", Municipality: "London", ISOCountry: "GB", ICAOCode: "EGLL", IATACode: "LHR"},
		{Ident: "X999", Type: "small_airport", Name: "Backfield Strip", ISOCountry: "US"},
	})
}

// TestFind tests code resolution order.
func TestFind(t *testing.T) {
	idx := testIndex()

	tests := []struct {
		name  string
		code  string
		ident string
	}{
		{"ICAO code", "LEVC", "LEVC"},
		{"Lowercase ICAO code", "egll", "EGLL"},
		{"IATA code", "VLC", "LEVC"},
		{"Ident fallback", "X999", "X999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := idx.Find(tt.code)
			if a == nil {
				t.Fatalf("Expected airport for %q, got nil", tt.code)
			}
			if a.Ident != tt.ident {
				t.Errorf("Expected ident %s, got %s", tt.ident, a.Ident)
			}
		})
	}

	t.Run("Unknown code", func(t *testing.T) {
		if a := idx.Find("ZZZZ"); a != nil {
			t.Errorf("Expected nil for unknown code, got %v", a)
		}
	})

	t.Run("Empty code", func(t *testing.T) {
		if a := idx.Find(""); a != nil {
			t.Errorf("Expected nil for empty code, got %v", a)
		}
	})
}

// TestCity tests display city fallbacks.
func TestCity(t *testing.T) {
	idx := testIndex()

	if got := City(idx.Find("LEVC")); got != "Valencia" {
		t.Errorf("Expected Valencia, got %s", got)
	}
	if got := City(idx.Find("X999")); got != "Backfield Strip" {
		t.Errorf("Expected airport name fallback, got %s", got)
	}
	if got := City(nil); got != "Unknown City" {
		t.Errorf("Expected Unknown City, got %s", got)
	}
}

// TestLoad tests loading the dataset from disk.
func TestLoad(t *testing.T) {
	t.Run("Valid dataset", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "airports.json")

		data, _ := json.Marshal([]Airport{
			{Ident: "LEMD", Name: "Adolfo Suárez Madrid–Barajas Airport", Municipality: "Madrid", ICAOCode: "LEMD", IATACode: "MAD"},
		})
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to write test dataset: %v", err)
		}

		idx, err := Load(path)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if City(idx.Find("MAD")) != "Madrid" {
			t.Error("Expected Madrid via IATA lookup")
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := Load("/nonexistent/airports.json"); err == nil {
			t.Error("Expected error for missing dataset")
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "airports.json")
		os.WriteFile(path, []byte("{not json"), 0644)

		if _, err := Load(path); err == nil {
			t.Error("Expected error for malformed dataset")
		}
	})
}
