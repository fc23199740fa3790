// Package flights implements the request-to-data pipeline behind the
// dashboard: normalizing raw OpenSky state vectors, filtering them to a
// circular region, enriching them with airframe metadata, and polling on
// a fixed interval while retaining the last good result set.
package flights

// AircraftPlaceholder is the aircraft display value before enrichment
// resolves the airframe.
const AircraftPlaceholder = "Loading..."

// Record is the normalized, display-ready shape of one airborne aircraft.
// Built fresh each poll cycle and never mutated after enrichment.
type Record struct {
	ICAO24      string  `json:"icao24"`
	Callsign    string  `json:"callsign"`
	Airline     string  `json:"airline"`
	Aircraft    string  `json:"aircraft"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Altitude    float64 `json:"altitude"`
	Velocity    float64 `json:"velocity"`
	Heading     float64 `json:"heading"`
	LastContact int64   `json:"lastContact"`
	OriginCity  string  `json:"originCity,omitempty"`
}
