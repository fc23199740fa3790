package opensky

import (
	"context"
	"sync"
)

// CredentialStore holds the single cached credential between poll cycles.
//
// The store is deliberately a two-method capability so deployments can pick
// the backing: an in-process variable for the single-node dashboard, a
// signed cookie when the credential rides with the browser session, or
// Redis when several replicas share one OpenSky account.
type CredentialStore interface {
	// Get returns the cached credential, or nil when none is stored.
	// An expired credential may be returned; callers check expiry.
	Get(ctx context.Context) (*Credential, error)

	// Set replaces the cached credential.
	Set(ctx context.Context, cred *Credential) error
}

// MemoryStore is the default in-process CredentialStore.
// Initialized empty at process start and never explicitly cleared.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
}

// NewMemoryStore creates an empty in-process credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credential, nil when none has been set.
func (s *MemoryStore) Get(ctx context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

// Set replaces the stored credential.
func (s *MemoryStore) Set(ctx context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cred
	s.cred = &c
	return nil
}
