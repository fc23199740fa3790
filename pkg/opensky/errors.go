package opensky

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned before any network call when the
	// OAuth client id or secret is not configured.
	ErrMissingCredentials = errors.New("opensky: client id and secret are required")

	// ErrInvalidTokenResponse is returned when the token endpoint answers
	// 2xx but the payload is missing the access token or a positive lifetime.
	ErrInvalidTokenResponse = errors.New("opensky: malformed token response")

	// ErrRateLimited is returned when a request could not be sent within
	// its deadline because of the client-side rate limiter. The request
	// never reached the network; retrying later is safe.
	ErrRateLimited = errors.New("opensky: request rate limited")
)

// AuthError indicates the OAuth token endpoint rejected the request.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("opensky: authentication failed (status %d): %s", e.StatusCode, e.Body)
}

// IsAuthError checks if an error is an authentication failure.
func IsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// APIError indicates a non-2xx response from a data endpoint.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("opensky: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsAPIError checks if an error is an upstream API failure.
func IsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
