package opensky

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// writeCookie runs Write and returns the resulting cookie.
func writeCookie(t *testing.T, store *CookieStore, cred *Credential) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := store.Write(rec, cred); err != nil {
		t.Fatalf("Expected no error writing cookie, got: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

// TestCookieStoreRoundTrip tests writing and reading the credential cookie.
func TestCookieStoreRoundTrip(t *testing.T) {
	store := NewCookieStore("test-secret", false)
	want := &Credential{
		AccessToken: "tok-abc",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(20 * time.Minute).Truncate(time.Second),
	}

	cookie := writeCookie(t, store, want)

	if cookie.Name != CookieName {
		t.Errorf("Expected cookie name %s, got %s", CookieName, cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("Expected httpOnly cookie")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Expected SameSite=Lax")
	}
	if cookie.Secure {
		t.Error("Expected insecure cookie outside production")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	got, err := store.Read(req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got == nil {
		t.Fatal("Expected credential, got nil")
	}
	if got.AccessToken != want.AccessToken {
		t.Errorf("Expected token %s, got %s", want.AccessToken, got.AccessToken)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("Expected expiry %v, got %v", want.ExpiresAt, got.ExpiresAt)
	}
}

// TestCookieStoreMaxAge tests the 30-minute max-age cap.
func TestCookieStoreMaxAge(t *testing.T) {
	store := NewCookieStore("test-secret", true)

	t.Run("Caps long-lived credentials", func(t *testing.T) {
		cookie := writeCookie(t, store, &Credential{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(2 * time.Hour),
		})
		if cookie.MaxAge != 1800 {
			t.Errorf("Expected max-age capped at 1800, got %d", cookie.MaxAge)
		}
		if !cookie.Secure {
			t.Error("Expected secure cookie in production mode")
		}
	})

	t.Run("Short-lived credential keeps its own lifetime", func(t *testing.T) {
		cookie := writeCookie(t, store, &Credential{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(10 * time.Minute),
		})
		if cookie.MaxAge < 590 || cookie.MaxAge > 600 {
			t.Errorf("Expected max-age ~600, got %d", cookie.MaxAge)
		}
	})

	t.Run("Expired credential is not written", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := store.Write(rec, &Credential{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(-time.Minute),
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if cookies := rec.Result().Cookies(); len(cookies) != 0 {
			t.Errorf("Expected no cookie for an expired credential, got %d", len(cookies))
		}
	})
}

// TestCookieStoreRejectsBadCookies tests tamper and absence handling.
func TestCookieStoreRejectsBadCookies(t *testing.T) {
	store := NewCookieStore("test-secret", false)

	t.Run("Missing cookie is a miss, not an error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		cred, err := store.Read(req)
		if err != nil || cred != nil {
			t.Errorf("Expected nil/nil, got %v/%v", cred, err)
		}
	})

	t.Run("Tampered signature is a miss", func(t *testing.T) {
		cookie := writeCookie(t, store, &Credential{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(20 * time.Minute),
		})
		cookie.Value += "x"

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)

		cred, err := store.Read(req)
		if err != nil || cred != nil {
			t.Errorf("Expected nil/nil for tampered cookie, got %v/%v", cred, err)
		}
	})

	t.Run("Cookie signed with another secret is a miss", func(t *testing.T) {
		other := NewCookieStore("other-secret", false)
		cookie := writeCookie(t, other, &Credential{
			AccessToken: "tok",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(20 * time.Minute),
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)

		cred, err := store.Read(req)
		if err != nil || cred != nil {
			t.Errorf("Expected nil/nil for foreign cookie, got %v/%v", cred, err)
		}
	})
}

// TestCookieStoreForRequest tests the request-scoped adapter.
func TestCookieStoreForRequest(t *testing.T) {
	store := NewCookieStore("test-secret", false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	scoped := store.ForRequest(rec, req)

	cred, err := scoped.Get(req.Context())
	if err != nil || cred != nil {
		t.Fatalf("Expected empty scoped store, got %v/%v", cred, err)
	}

	want := &Credential{AccessToken: "tok", TokenType: "Bearer", ExpiresAt: time.Now().Add(15 * time.Minute)}
	if err := scoped.Set(req.Context(), want); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(rec.Result().Cookies()) != 1 {
		t.Error("Expected Set to write the response cookie")
	}
}
