package flights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thiagohernandez/flight-me/internal/observability"
	"github.com/thiagohernandez/flight-me/pkg/geo"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// StateSource returns the current state vectors inside a bounding box.
// *opensky.Client satisfies it.
type StateSource interface {
	StatesInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]opensky.StateVector, error)
}

// Service runs one poll cycle: fetch states for the coarse box around
// the center, normalize and filter to the exact circle, then enrich.
type Service struct {
	states   StateSource
	enricher *Enricher
	logger   *slog.Logger
}

// NewService wires the pipeline.
func NewService(states StateSource, enricher *Enricher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{states: states, enricher: enricher, logger: logger}
}

// Fetch returns the enriched flights currently within radiusKm of center.
//
// Token and telemetry failures abort the cycle: no partial list is ever
// returned. Metadata failures only degrade individual aircraft.
func (s *Service) Fetch(ctx context.Context, center geo.Point, radiusKm float64) ([]Record, error) {
	start := time.Now()

	box := geo.BoundingBoxAround(center, radiusKm)
	states, err := s.states.StatesInBox(ctx, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		observability.PollCycles.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching states: %w", err)
	}

	records := make([]Record, 0, len(states))
	for _, st := range states {
		rec, ok := Normalize(st)
		if !ok {
			continue
		}
		// The provider answered the coarse box; the circle is ours to
		// enforce.
		if !geo.IsWithinRadius(center, geo.Point{Latitude: rec.Latitude, Longitude: rec.Longitude}, radiusKm) {
			continue
		}
		records = append(records, rec)
	}

	records = s.enricher.Enrich(ctx, records)

	observability.PollCycles.WithLabelValues("ok").Inc()
	observability.FlightsReturned.Observe(float64(len(records)))
	observability.CycleDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("poll cycle complete",
		"states", len(states),
		"admitted", len(records),
		"radius_km", radiusKm,
		"elapsed", time.Since(start))

	return records, nil
}
