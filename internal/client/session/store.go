// Package session holds the bearer token for the current process.
//
// The store is a single slot with last-write-wins semantics: at most one
// token is held at a time, and its presence is the only signal of an
// authenticated session. Construct one Store per application lifetime and
// pass it by reference to the components that need it.
package session

import "sync"

type Store struct {
	mu    sync.RWMutex
	token string
}

func NewStore() *Store {
	return &Store{}
}

// Token returns the current token and whether one is held.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken replaces the stored token. An empty string clears the slot.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the stored token, ending the authenticated session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Store) HasToken() bool {
	_, ok := s.Token()
	return ok
}
