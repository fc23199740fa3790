// Package locations holds the catalog of selectable observation points
// for the dashboard. The catalog is static; the default is the Lliria
// location the board was originally built for.
package locations

import "github.com/thiagohernandez/flight-me/pkg/geo"

// Location is a selectable center point for flight queries.
type Location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description,omitempty"`
}

// Point returns the location's geographic coordinates.
func (l Location) Point() geo.Point {
	return geo.Point{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DefaultID is the location used when none is selected.
const DefaultID = "lliria"

var catalog = []Location{
	// Spain
	{ID: "lliria", Name: "Lliria", Country: "Spain", Latitude: 39.64547, Longitude: -0.68478, Description: "Valencia region, Spain"},
	{ID: "valencia", Name: "Valencia", Country: "Spain", Latitude: 39.48074, Longitude: -0.32927, Description: "Valencia, Spain"},
	{ID: "madrid", Name: "Madrid", Country: "Spain", Latitude: 40.4168, Longitude: -3.7038, Description: "Madrid, Spain"},
	{ID: "barcelona", Name: "Barcelona", Country: "Spain", Latitude: 41.3851, Longitude: 2.1734, Description: "Barcelona, Spain"},
	{ID: "sevilla", Name: "Sevilla", Country: "Spain", Latitude: 37.3886, Longitude: -5.9823, Description: "Sevilla, Spain"},
	{ID: "bilbao", Name: "Bilbao", Country: "Spain", Latitude: 43.2627, Longitude: -2.9253, Description: "Bilbao, Spain"},

	// Europe
	{ID: "london", Name: "London", Country: "United Kingdom", Latitude: 51.5074, Longitude: -0.1278, Description: "London, United Kingdom"},
	{ID: "paris", Name: "Paris", Country: "France", Latitude: 48.8566, Longitude: 2.3522, Description: "Paris, France"},
	{ID: "berlin", Name: "Berlin", Country: "Germany", Latitude: 52.52, Longitude: 13.405, Description: "Berlin, Germany"},
	{ID: "rome", Name: "Rome", Country: "Italy", Latitude: 41.9028, Longitude: 12.4964, Description: "Rome, Italy"},
	{ID: "amsterdam", Name: "Amsterdam", Country: "Netherlands", Latitude: 52.3676, Longitude: 4.9041, Description: "Amsterdam, Netherlands"},
	{ID: "lisbon", Name: "Lisbon", Country: "Portugal", Latitude: 38.7223, Longitude: -9.1393, Description: "Lisbon, Portugal"},

	// Americas
	{ID: "newyork", Name: "New York", Country: "United States", Latitude: 40.7128, Longitude: -74.006, Description: "New York, United States"},
	{ID: "losangeles", Name: "Los Angeles", Country: "United States", Latitude: 34.0522, Longitude: -118.2437, Description: "Los Angeles, United States"},
	{ID: "mexicocity", Name: "Mexico City", Country: "Mexico", Latitude: 19.4326, Longitude: -99.1332, Description: "Mexico City, Mexico"},

	// Asia-Pacific
	{ID: "tokyo", Name: "Tokyo", Country: "Japan", Latitude: 35.6762, Longitude: 139.6503, Description: "Tokyo, Japan"},
	{ID: "singapore", Name: "Singapore", Country: "Singapore", Latitude: 1.3521, Longitude: 103.8198, Description: "Singapore"},
	{ID: "sydney", Name: "Sydney", Country: "Australia", Latitude: -33.8688, Longitude: 151.2093, Description: "Sydney, Australia"},
}

// All returns the full catalog in display order.
func All() []Location {
	out := make([]Location, len(catalog))
	copy(out, catalog)
	return out
}

// ByID resolves a location id. Returns (zero, false) when unknown.
func ByID(id string) (Location, bool) {
	for _, l := range catalog {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// Default returns the fallback location.
func Default() Location {
	l, _ := ByID(DefaultID)
	return l
}
