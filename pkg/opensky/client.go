package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// TokenSource supplies a bearer credential for authenticated endpoints.
// *TokenClient satisfies it; tests substitute a stub.
type TokenSource interface {
	Acquire(ctx context.Context) (*Credential, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL overrides the OpenSky API base URL (useful for testing)
	BaseURL string

	// Tokens authenticates state vector queries. Required: OpenSky retired
	// anonymous access to /states/all.
	Tokens TokenSource

	// Timeout per request; defaults to DefaultTimeout
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls; defaults to 1 req/s with
	// a small burst, matching OpenSky's guidance for interactive clients
	RequestsPerSecond float64
}

// Client fetches live state vectors, aircraft metadata and flight segments
// from the OpenSky Network API.
type Client struct {
	baseURL     string
	tokens      TokenSource
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates an OpenSky API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1.0
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		tokens:      cfg.Tokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 2),
	}
}

// StatesInBox returns the state vectors currently inside the bounding box.
// Requires authentication; the bearer token is acquired (or refreshed)
// transparently through the configured TokenSource.
func (c *Client) StatesInBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]StateVector, error) {
	cred, err := c.tokens.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	q := url.Values{
		"lamin": {formatCoord(minLat)},
		"lamax": {formatCoord(maxLat)},
		"lomin": {formatCoord(minLon)},
		"lomax": {formatCoord(maxLon)},
	}

	var envelope StatesResponse
	if err := c.getJSON(ctx, "/states/all", q, cred, &envelope); err != nil {
		return nil, err
	}

	// States is null when the box is empty
	return envelope.States, nil
}

// AircraftMetadata returns airframe metadata for an ICAO24 address.
// Returns nil when the aircraft is unknown to OpenSky.
func (c *Client) AircraftMetadata(ctx context.Context, icao24 string) (*AircraftMetadata, error) {
	if icao24 == "" {
		return nil, nil
	}

	var meta AircraftMetadata
	err := c.getJSON(ctx, "/metadata/aircraft/icao/"+url.PathEscape(icao24), nil, nil, &meta)
	if err != nil {
		if ae, ok := IsAPIError(err); ok && ae.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// FlightsByAircraft returns the flight segments flown by an aircraft
// within the [begin, end] window, oldest first.
func (c *Client) FlightsByAircraft(ctx context.Context, icao24 string, begin, end time.Time) ([]FlightSegment, error) {
	q := url.Values{
		"icao24": {icao24},
		"begin":  {strconv.FormatInt(begin.Unix(), 10)},
		"end":    {strconv.FormatInt(end.Unix(), 10)},
	}

	var segments []FlightSegment
	err := c.getJSON(ctx, "/flights/aircraft", q, nil, &segments)
	if err != nil {
		if ae, ok := IsAPIError(err); ok && ae.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return segments, nil
}

// getJSON performs a rate-limited GET and decodes the JSON response.
// cred is optional; when set the request carries a bearer token.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, cred *Credential, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if cred != nil {
		req.Header.Set("Authorization", cred.TokenType+" "+cred.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
