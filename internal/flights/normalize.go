package flights

import (
	"strings"

	"github.com/thiagohernandez/flight-me/internal/airlines"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// Normalize converts a raw state vector into a display Record.
// Returns false when the state must be dropped: aircraft without a
// position cannot be placed on the board, and grounded aircraft are out
// of scope (airborne-only semantics).
//
// Normalize is a pure function: the same state always yields the same
// record. The aircraft field is a placeholder until enrichment runs.
func Normalize(s opensky.StateVector) (Record, bool) {
	if s.Latitude == nil || s.Longitude == nil || s.OnGround {
		return Record{}, false
	}

	callsign := airlines.Unknown
	if s.Callsign != nil {
		if trimmed := strings.TrimSpace(*s.Callsign); trimmed != "" {
			callsign = trimmed
		}
	}

	// Barometric altitude wins; geometric fills in when the barometric
	// report is missing.
	altitude := 0.0
	if s.BaroAltitude != nil {
		altitude = *s.BaroAltitude
	} else if s.GeoAltitude != nil {
		altitude = *s.GeoAltitude
	}

	velocity := 0.0
	if s.Velocity != nil {
		velocity = *s.Velocity
	}
	heading := 0.0
	if s.TrueTrack != nil {
		heading = *s.TrueTrack
	}

	return Record{
		ICAO24:      s.ICAO24,
		Callsign:    callsign,
		Airline:     airlines.FromCallsign(callsign),
		Aircraft:    AircraftPlaceholder,
		Country:     s.OriginCountry,
		Latitude:    *s.Latitude,
		Longitude:   *s.Longitude,
		Altitude:    altitude,
		Velocity:    velocity,
		Heading:     heading,
		LastContact: s.LastContact,
	}, true
}
