package client

import (
	"sync"

	"github.com/google/uuid"
)

// Session owns the names resolved by the most recent successful lookup.
// Only lookups write the list and only regeneration reads it, but both can
// run from different goroutines, hence the mutex.
type Session struct {
	ID string

	mu                sync.Mutex
	lastSearchedNames []string
}

// NewSession creates an empty session with a fresh identifier.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// LastSearchedNames returns a copy of the remembered names.
func (s *Session) LastSearchedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.lastSearchedNames))
	copy(names, s.lastSearchedNames)
	return names
}

// SetLastSearchedNames overwrites the remembered names.
func (s *Session) SetLastSearchedNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSearchedNames = make([]string, len(names))
	copy(s.lastSearchedNames, names)
}
