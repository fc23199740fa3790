package opensky

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie carrying the upstream credential
	CookieName = "opensky_token"

	// maxCookieAge caps the cookie lifetime regardless of the credential's
	// remaining validity
	maxCookieAge = 1800 * time.Second
)

// ErrNoCookieRequest is returned when a CookieStore is used outside a
// request scope.
var ErrNoCookieRequest = errors.New("opensky: cookie store requires a request")

// cookieClaims wraps the credential in signed JWT claims so a tampered
// cookie fails validation instead of injecting an attacker-chosen token.
type cookieClaims struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// CookieStore persists the credential as a signed HTTP cookie.
//
// This is the deployment variant where the credential rides with the
// browser session instead of process memory. The cookie is httpOnly,
// SameSite=Lax, secure in production, and its max-age is capped at the
// credential's remaining lifetime (never more than 30 minutes).
type CookieStore struct {
	secret []byte
	secure bool
}

// NewCookieStore creates a cookie-backed store signing with the given secret.
// secure should be true in production so the cookie is HTTPS-only.
func NewCookieStore(secret string, secure bool) *CookieStore {
	return &CookieStore{secret: []byte(secret), secure: secure}
}

// ForRequest binds the store to one request/response pair, yielding a
// CredentialStore scoped to that exchange.
func (cs *CookieStore) ForRequest(w http.ResponseWriter, r *http.Request) CredentialStore {
	return &requestCookieStore{store: cs, w: w, r: r}
}

// Read extracts and validates the credential cookie from a request.
// Returns nil without error when the cookie is absent or invalid; a bad
// cookie just means a fresh token fetch.
func (cs *CookieStore) Read(r *http.Request) (*Credential, error) {
	if r == nil {
		return nil, ErrNoCookieRequest
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &cookieClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return cs.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, nil
	}

	claims, ok := token.Claims.(*cookieClaims)
	if !ok || claims.ExpiresAt == nil {
		return nil, nil
	}

	return &Credential{
		AccessToken: claims.AccessToken,
		TokenType:   claims.TokenType,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Write sets the credential cookie on a response. A credential whose
// lifetime has already elapsed is not written, matching the TTL skip in
// RedisStore.Set.
func (cs *CookieStore) Write(w http.ResponseWriter, cred *Credential) error {
	if w == nil {
		return ErrNoCookieRequest
	}

	maxAge := time.Until(cred.ExpiresAt)
	if maxAge <= 0 {
		return nil
	}
	if maxAge > maxCookieAge {
		maxAge = maxCookieAge
	}

	claims := &cookieClaims{
		AccessToken: cred.AccessToken,
		TokenType:   cred.TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(cred.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cs.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// requestCookieStore adapts a CookieStore to one request's lifetime.
type requestCookieStore struct {
	store *CookieStore
	w     http.ResponseWriter
	r     *http.Request
}

func (s *requestCookieStore) Get(ctx context.Context) (*Credential, error) {
	return s.store.Read(s.r)
}

func (s *requestCookieStore) Set(ctx context.Context, cred *Credential) error {
	return s.store.Write(s.w, cred)
}
