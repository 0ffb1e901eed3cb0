package dialog

import (
	"sync"
)

// Store holds the current Context per user id.
//
// Entries are created lazily from the factory on first access and are
// never removed; Clear resets an entry to a fresh empty context instead.
// Each entry carries its own lock so merges for one user are serialized
// while users never block each other. The outer lock only guards the map.
type Store struct {
	mu      sync.Mutex
	factory func() Context
	entries map[string]*storeEntry
}

type storeEntry struct {
	mu  sync.Mutex
	ctx Context
}

// NewStore creates a store backed by the given empty-context factory.
func NewStore(factory func() Context) *Store {
	return &Store{
		factory: factory,
		entries: make(map[string]*storeEntry),
	}
}

func (s *Store) entry(userID string) *storeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		e = &storeEntry{ctx: s.factory()}
		s.entries[userID] = e
	}
	return e
}

// Get returns the stored context for the user, creating an empty one the
// first time the user id is seen.
func (s *Store) Get(userID string) Context {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Merge folds the delta into the stored context under the fill-only-if-
// absent rule and returns the updated value. Fails with ErrKindMismatch if
// the delta's kind differs from the stored context's kind; the stored
// value is left untouched in that case.
func (s *Store) Merge(userID string, delta Context) (Context, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	merged, err := e.ctx.Merge(delta)
	if err != nil {
		return Context{}, err
	}
	e.ctx = merged
	return merged, nil
}

// Clear replaces the stored context with a freshly created empty one,
// discarding all slot values.
func (s *Store) Clear(userID string) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx = s.factory()
}
