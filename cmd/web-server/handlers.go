package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thiagohernandez/flight-me/internal/flights"
	"github.com/thiagohernandez/flight-me/internal/locations"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// flightsPayload is the JSON shape of the flight board.
type flightsPayload struct {
	Flights   []flights.Record `json:"flights"`
	Count     int              `json:"count"`
	Location  string           `json:"location"`
	RadiusKm  float64          `json:"radiusKm"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Stale     bool             `json:"stale"`
	Error     string           `json:"error,omitempty"`
}

// handleGetFlights serves the flight board.
//
// Without parameters it returns the poller's current snapshot. With
// location and/or radius parameters it fetches that region on demand,
// so a browser can look at another city without retargeting the poller.
func (s *Server) handleGetFlights(w http.ResponseWriter, r *http.Request) {
	locID := r.URL.Query().Get("location")
	radiusParam := r.URL.Query().Get("radius")

	if locID == "" && radiusParam == "" {
		snap := s.poller.Snapshot()
		targetLoc, targetRadius := s.currentTarget()
		payload := flightsPayload{
			Flights:   snap.Flights,
			Count:     len(snap.Flights),
			Location:  targetLoc,
			RadiusKm:  targetRadius,
			UpdatedAt: snap.UpdatedAt,
			Stale:     snap.Err != nil,
		}
		if snap.Err != nil {
			payload.Error = snap.Err.Error()
		}
		if payload.Flights == nil {
			payload.Flights = []flights.Record{}
		}
		respondJSON(w, http.StatusOK, payload)
		return
	}

	targetLoc, targetRadius := s.currentTarget()
	if locID == "" {
		locID = targetLoc
	}
	loc, ok := locations.ByID(locID)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown location")
		return
	}

	radius := targetRadius
	if radiusParam != "" {
		parsed, err := strconv.ParseFloat(radiusParam, 64)
		if err != nil || parsed <= 0 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "radius must be a number between 0 and 500")
			return
		}
		radius = parsed
	}

	service := s.service
	if s.cookieStore != nil {
		service = s.requestScopedService(w, r)
	}

	records, err := service.Fetch(r.Context(), loc.Point(), radius)
	if err != nil {
		s.logger.Error("on-demand fetch failed", "location", locID, "error", err)
		status := http.StatusBadGateway
		if _, ok := opensky.IsAuthError(err); ok {
			status = http.StatusServiceUnavailable
		}
		respondError(w, status, "flight data unavailable")
		return
	}

	respondJSON(w, http.StatusOK, flightsPayload{
		Flights:   records,
		Count:     len(records),
		Location:  locID,
		RadiusKm:  radius,
		UpdatedAt: time.Now(),
	})
}

// requestScopedService rebuilds the fetch pipeline around a token client
// whose credential rides in the caller's signed cookie.
func (s *Server) requestScopedService(w http.ResponseWriter, r *http.Request) *flights.Service {
	tokens := opensky.NewTokenClient(opensky.TokenClientConfig{
		ClientID:     s.cfg.OpenSky.ClientID,
		ClientSecret: s.cfg.OpenSky.ClientSecret,
		TokenURL:     s.cfg.OpenSky.TokenURL,
		Store:        s.cookieStore.ForRequest(w, r),
	})
	client := opensky.NewClient(opensky.ClientConfig{
		BaseURL:           s.cfg.OpenSky.BaseURL,
		Tokens:            tokens,
		RequestsPerSecond: s.cfg.OpenSky.RequestsPerSecond,
	})
	// The enricher is shared so its airframe cache persists across requests.
	return flights.NewService(client, s.enricher, s.logger)
}

// handleGetAircraft returns airframe metadata for one ICAO24 address.
func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	icao24 := chi.URLParam(r, "icao24")

	meta, err := s.client.AircraftMetadata(r.Context(), icao24)
	if err != nil {
		s.logger.Error("metadata lookup failed", "icao24", icao24, "error", err)
		respondError(w, http.StatusBadGateway, "metadata unavailable")
		return
	}
	if meta == nil {
		respondError(w, http.StatusNotFound, "aircraft not found")
		return
	}

	respondJSON(w, http.StatusOK, meta)
}

// handleGetFlightRoute returns the origin and destination of the
// aircraft's most recent flight segment.
func (s *Server) handleGetFlightRoute(w http.ResponseWriter, r *http.Request) {
	icao24 := chi.URLParam(r, "icao24")

	route, err := s.routes.Resolve(r.Context(), icao24)
	if err != nil {
		s.logger.Error("route lookup failed", "icao24", icao24, "error", err)
		respondError(w, http.StatusBadGateway, "route unavailable")
		return
	}
	if route == nil {
		respondError(w, http.StatusNotFound, "no recent flight for aircraft")
		return
	}

	respondJSON(w, http.StatusOK, route)
}

// setLocationRequest is the body of a location change.
type setLocationRequest struct {
	Location string  `json:"location"`
	Radius   float64 `json:"radius,omitempty"`
}

// handleSetLocation retargets the background poller to another catalog
// location. The poller fetches the new region before this returns, so
// the next snapshot read already reflects the change.
func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var req setLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, ok := locations.ByID(req.Location)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown location")
		return
	}

	_, radius := s.currentTarget()
	if req.Radius != 0 {
		if req.Radius < 0 || req.Radius > 500 {
			respondError(w, http.StatusBadRequest, "radius must be a number between 0 and 500")
			return
		}
		radius = req.Radius
	}

	s.poller.Retarget(r.Context(), loc.Point(), radius)
	s.setTarget(loc.ID, radius)
	s.logger.Info("poller retargeted", "location", loc.ID, "radius_km", radius)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"location": loc.ID,
		"radiusKm": radius,
	})
}

// currentTarget returns the poller's location id and radius.
func (s *Server) currentTarget() (string, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locationID, s.radiusKm
}

func (s *Server) setTarget(locationID string, radiusKm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locationID = locationID
	s.radiusKm = radiusKm
}

// handleGetLocations returns the selectable location catalog.
func (s *Server) handleGetLocations(w http.ResponseWriter, r *http.Request) {
	all := locations.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"locations": all,
		"count":     len(all),
		"default":   locations.DefaultID,
	})
}

// handleHealthz reports process liveness and snapshot freshness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	snap := s.poller.Snapshot()

	status := "ok"
	if snap.Err != nil {
		status = "degraded"
	}

	payload := map[string]interface{}{
		"status":         status,
		"uptime":         time.Since(s.started).Round(time.Second).String(),
		"flights":        len(snap.Flights),
		"cachedAircraft": s.enricher.CacheSize(),
	}
	if !snap.UpdatedAt.IsZero() {
		payload["snapshotAge"] = time.Since(snap.UpdatedAt).Round(time.Second).String()
	}
	if snap.Err != nil {
		payload["error"] = snap.Err.Error()
	}

	respondJSON(w, http.StatusOK, payload)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
