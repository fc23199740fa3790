package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thiagohernandez/flight-me/internal/airports"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// routeLookbackWindow is how far back to search for the current flight
// segment of an airframe.
const routeLookbackWindow = 24 * time.Hour

// Route is the resolved origin and destination of an aircraft's most
// recent flight segment.
type Route struct {
	ICAO24           string `json:"icao24"`
	Callsign         string `json:"callsign,omitempty"`
	DepartureAirport string `json:"departureAirport,omitempty"`
	DepartureCity    string `json:"departureCity"`
	ArrivalAirport   string `json:"arrivalAirport,omitempty"`
	ArrivalCity      string `json:"arrivalCity"`
	FirstSeen        int64  `json:"firstSeen"`
	LastSeen         int64  `json:"lastSeen"`
}

// FlightSource lists recent flight segments for an airframe.
// *opensky.Client satisfies it.
type FlightSource interface {
	FlightsByAircraft(ctx context.Context, icao24 string, begin, end time.Time) ([]opensky.FlightSegment, error)
}

// RouteResolver turns an ICAO24 address into an origin/destination pair
// by taking the airframe's most recent flight segment and resolving its
// estimated airports to cities.
type RouteResolver struct {
	source   FlightSource
	airports *airports.Index
}

// NewRouteResolver wires a resolver over the flights endpoint and the
// airports dataset.
func NewRouteResolver(source FlightSource, index *airports.Index) *RouteResolver {
	return &RouteResolver{source: source, airports: index}
}

// Resolve returns the route of the aircraft's latest segment inside the
// lookback window, or nil when no segment is known. Airport codes the
// dataset cannot place resolve to "Unknown City" rather than failing
// the lookup.
func (r *RouteResolver) Resolve(ctx context.Context, icao24 string) (*Route, error) {
	icao24 = strings.ToLower(strings.TrimSpace(icao24))
	if icao24 == "" {
		return nil, fmt.Errorf("empty icao24")
	}

	end := time.Now()
	segments, err := r.source.FlightsByAircraft(ctx, icao24, end.Add(-routeLookbackWindow), end)
	if err != nil {
		return nil, fmt.Errorf("fetching flight segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, nil
	}

	latest := segments[0]
	for _, seg := range segments[1:] {
		if seg.LastSeen > latest.LastSeen {
			latest = seg
		}
	}

	route := &Route{
		ICAO24:    latest.ICAO24,
		Callsign:  strings.TrimSpace(latest.Callsign),
		FirstSeen: latest.FirstSeen,
		LastSeen:  latest.LastSeen,
	}
	if latest.EstDepartureAirport != nil {
		route.DepartureAirport = *latest.EstDepartureAirport
	}
	if latest.EstArrivalAirport != nil {
		route.ArrivalAirport = *latest.EstArrivalAirport
	}
	route.DepartureCity = airports.City(r.airports.Find(route.DepartureAirport))
	route.ArrivalCity = airports.City(r.airports.Find(route.ArrivalAirport))

	return route, nil
}
