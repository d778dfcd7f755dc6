// Package session owns authentication state: the in-memory store with its
// three transitions, best-effort file persistence, and the route/role gating
// decisions derived from the current session.
package session

import (
	"sync"

	"imsdash/internal/domain"
)

// Store is the sole mutable owner of the session. State changes only through
// Login, Logout and Bootstrap; every transition notifies subscribers
// synchronously before the mutating call returns.
type Store struct {
	mu      sync.RWMutex
	session domain.Session
	subs    []func(domain.Session)
}

// NewStore returns a store holding the empty (logged-out) session.
func NewStore() *Store {
	return &Store{}
}

// Session returns the current session value.
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn to be called synchronously on every transition, and
// immediately with the current value so late subscribers never miss state.
func (s *Store) Subscribe(fn func(domain.Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	current := s.session
	s.mu.Unlock()
	fn(current)
}

// Login sets the session to authenticated with the given fields. It is total:
// it never fails and does not persist anything; persistence is the caller's
// explicit follow-up.
func (s *Store) Login(token string, role domain.Role, user domain.UserSummary) {
	u := user
	s.apply(domain.Session{
		Authenticated: true,
		Token:         token,
		Role:          role,
		User:          &u,
	})
}

// Logout clears the session back to the initial empty value.
func (s *Store) Logout() {
	s.apply(domain.Session{})
}

// Bootstrap restores a possibly-malformed persisted record. The record is
// applied only when it satisfies the session invariant (token present, role
// in the closed set, user present); anything else is silently rejected and
// the store stays logged out. Returns whether the record was applied.
func (s *Store) Bootstrap(rec Record) bool {
	role, err := domain.ParseRole(rec.Role)
	if err != nil || rec.Token == "" || rec.User == nil {
		return false
	}
	u := *rec.User
	s.apply(domain.Session{
		Authenticated: true,
		Token:         rec.Token,
		Role:          role,
		User:          &u,
	})
	return true
}

func (s *Store) apply(next domain.Session) {
	s.mu.Lock()
	s.session = next
	subs := make([]func(domain.Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
