package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/thiagohernandez/flight-me/internal/observability"
)

// DefaultExpiryBuffer is subtracted from the provider-declared token
// lifetime so a credential is retired before it can expire mid-request.
// Five minutes absorbs clock skew and request latency.
const DefaultExpiryBuffer = 5 * time.Minute

// Credential is a cached OAuth2 bearer token.
type Credential struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the credential may no longer be handed out.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// tokenResponse mirrors the JSON from the OpenSky token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	TokenType   string `json:"token_type"`
}

// TokenClientConfig configures a TokenClient.
type TokenClientConfig struct {
	ClientID     string
	ClientSecret string

	// TokenURL overrides the OpenSky token endpoint (useful for testing)
	TokenURL string

	// ExpiryBuffer is subtracted from the provider lifetime; defaults to
	// DefaultExpiryBuffer
	ExpiryBuffer time.Duration

	// Timeout for the token request; defaults to DefaultTimeout
	Timeout time.Duration

	// Store holds the cached credential; defaults to an in-process
	// MemoryStore
	Store CredentialStore
}

// TokenClient obtains and caches an OAuth2 client-credentials token.
//
// Acquire never hands out an expired credential. Concurrent callers racing
// on a refresh may each fetch a new token; that duplicates a little work
// but never produces incorrect data, so exactly-once refresh is not
// guaranteed. Failures are not retried here; retry policy belongs to the
// caller.
type TokenClient struct {
	clientID     string
	clientSecret string
	tokenURL     string
	buffer       time.Duration
	httpClient   *http.Client
	store        CredentialStore

	// mu serializes refreshes against the store
	mu sync.Mutex
}

// NewTokenClient creates a token client for the OAuth2 client-credentials flow.
func NewTokenClient(cfg TokenClientConfig) *TokenClient {
	if cfg.TokenURL == "" {
		cfg.TokenURL = TokenURL
	}
	if cfg.ExpiryBuffer == 0 {
		cfg.ExpiryBuffer = DefaultExpiryBuffer
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}

	return &TokenClient{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		buffer:       cfg.ExpiryBuffer,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		store:        cfg.Store,
	}
}

// Acquire returns a valid credential, fetching a new one when the cached
// credential is absent or expired. A cache hit performs no network I/O.
func (tc *TokenClient) Acquire(ctx context.Context) (*Credential, error) {
	now := time.Now()

	if cred, err := tc.store.Get(ctx); err == nil && cred != nil && !cred.Expired(now) {
		return cred, nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Double-check after acquiring the lock: another caller may have
	// refreshed while we waited.
	if cred, err := tc.store.Get(ctx); err == nil && cred != nil && !cred.Expired(time.Now()) {
		return cred, nil
	}

	cred, err := tc.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := tc.store.Set(ctx, cred); err != nil {
		// A store failure costs a refresh on the next call but the
		// credential itself is still good.
		return cred, nil
	}
	return cred, nil
}

// fetch requests a new token from the OAuth2 endpoint.
func (tc *TokenClient) fetch(ctx context.Context) (*Credential, error) {
	if tc.clientID == "" || tc.clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {tc.clientID},
		"client_secret": {tc.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTokenResponse, err)
	}
	if tok.AccessToken == "" || tok.ExpiresIn <= 0 {
		return nil, ErrInvalidTokenResponse
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}

	observability.TokenRefreshes.Inc()
	return &Credential{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tc.buffer),
	}, nil
}
