// Package opensky provides a client for the OpenSky Network REST API.
//
// The OpenSky Network aggregates crowd-sourced ADS-B data and exposes it
// through three endpoints used here: live state vectors inside a bounding
// box, per-airframe metadata, and recent flight segments. State vector
// queries require an OAuth2 bearer token obtained through the
// client-credentials grant; token lifecycle is handled by TokenClient.
//
// API Documentation: https://openskynetwork.github.io/opensky-api/
// Rate Limits: authenticated accounts get 4000 credits/day; a bounding-box
// states query costs 1-4 credits depending on area.
package opensky

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// BaseURL is the OpenSky Network REST API base URL
	BaseURL = "https://opensky-network.org/api"

	// TokenURL is the OpenSky OAuth2 client-credentials token endpoint
	TokenURL = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second

	// userAgent identifies this client to the OpenSky API
	userAgent = "flight-me/1.0"
)

// StateVector is one aircraft position report from /states/all.
//
// The wire format is a positional 17-element array with independently
// nullable fields; it is decoded into this typed struct at the API
// boundary so upstream format churn stays isolated to this package.
type StateVector struct {
	// ICAO24 is the unique 24-bit transponder address (e.g., "3c6444")
	ICAO24 string

	// Callsign is the broadcast callsign, untrimmed, nil when not transmitted
	Callsign *string

	// OriginCountry is the country of registration
	OriginCountry string

	// TimePosition is the Unix timestamp of the last position report
	TimePosition *int64

	// LastContact is the Unix timestamp of the last received message
	LastContact int64

	// Longitude in decimal degrees, nil when no position is known
	Longitude *float64

	// Latitude in decimal degrees, nil when no position is known
	Latitude *float64

	// BaroAltitude is the barometric altitude in meters
	BaroAltitude *float64

	// OnGround indicates a surface position report
	OnGround bool

	// Velocity is the ground speed in m/s
	Velocity *float64

	// TrueTrack is the heading in decimal degrees clockwise from north
	TrueTrack *float64

	// VerticalRate in m/s (positive = climbing)
	VerticalRate *float64

	// Sensors lists the IDs of receivers contributing to this state
	Sensors []int

	// GeoAltitude is the geometric (GPS) altitude in meters
	GeoAltitude *float64

	// Squawk is the transponder code
	Squawk *string

	// SPI indicates a special-purpose transponder ident
	SPI bool

	// PositionSource: 0 = ADS-B, 1 = ASTERIX, 2 = MLAT, 3 = FLARM
	PositionSource int
}

// UnmarshalJSON decodes the positional array encoding of a state vector.
func (s *StateVector) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("state vector is not an array: %w", err)
	}
	if len(raw) < 17 {
		return fmt.Errorf("state vector has %d fields, want at least 17", len(raw))
	}

	fields := []struct {
		idx int
		dst interface{}
	}{
		{0, &s.ICAO24},
		{1, &s.Callsign},
		{2, &s.OriginCountry},
		{3, &s.TimePosition},
		{4, &s.LastContact},
		{5, &s.Longitude},
		{6, &s.Latitude},
		{7, &s.BaroAltitude},
		{8, &s.OnGround},
		{9, &s.Velocity},
		{10, &s.TrueTrack},
		{11, &s.VerticalRate},
		{12, &s.Sensors},
		{13, &s.GeoAltitude},
		{14, &s.Squawk},
		{15, &s.SPI},
		{16, &s.PositionSource},
	}
	for _, f := range fields {
		if err := json.Unmarshal(raw[f.idx], f.dst); err != nil {
			return fmt.Errorf("state vector field %d: %w", f.idx, err)
		}
	}
	return nil
}

// StatesResponse is the JSON envelope returned by /states/all.
type StatesResponse struct {
	// Time is the Unix timestamp the states are valid for
	Time int64 `json:"time"`

	// States is nil when no aircraft match the query
	States []StateVector `json:"states"`
}

// AircraftMetadata describes an airframe from /metadata/aircraft/icao.
// Every field is optional on the wire; absent fields decode to "".
type AircraftMetadata struct {
	ICAO24           string `json:"icao24"`
	Registration     string `json:"registration"`
	ManufacturerICAO string `json:"manufacturericao"`
	ManufacturerName string `json:"manufacturername"`
	Model            string `json:"model"`
	TypeCode         string `json:"typecode"`
	SerialNumber     string `json:"serialnumber"`
	ICAOAircraftType string `json:"icaoaircrafttype"`
	Operator         string `json:"operator"`
	OperatorCallsign string `json:"operatorcallsign"`
	OperatorICAO     string `json:"operatoricao"`
	OperatorIATA     string `json:"operatoriata"`
	Owner            string `json:"owner"`
}

// FlightSegment is one completed or ongoing flight from /flights/aircraft.
type FlightSegment struct {
	ICAO24              string  `json:"icao24"`
	FirstSeen           int64   `json:"firstSeen"`
	LastSeen            int64   `json:"lastSeen"`
	Callsign            string  `json:"callsign"`
	EstDepartureAirport *string `json:"estDepartureAirport"`
	EstArrivalAirport   *string `json:"estArrivalAirport"`
}
