package bookshelf

import (
	"sync"
	"time"
)

var _ SessionStore = (*MemorySessionStore)(nil)

type sessionEntry struct {
	username  string
	expiresAt time.Time
}

// MemorySessionStore keeps token to username bindings in process memory.
// Sessions do not survive a restart; every issued token is invalidated
// when the process exits.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	now     func() time.Time
}

type MemorySessionStoreOption func(*MemorySessionStore)

// WithSessionClock overrides the clock, used by tests to step time.
func WithSessionClock(now func() time.Time) MemorySessionStoreOption {
	return func(s *MemorySessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemorySessionStore(opts ...MemorySessionStoreOption) *MemorySessionStore {
	store := &MemorySessionStore{
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

func (s *MemorySessionStore) Put(token, username string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = sessionEntry{
		username:  username,
		expiresAt: expiresAt,
	}
}

// Get resolves a token to its username. Expired entries are treated as
// absent and dropped.
func (s *MemorySessionStore) Get(token string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}

	if s.now().After(entry.expiresAt) {
		s.Delete(token)
		return "", false
	}

	return entry.username, true
}

func (s *MemorySessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// DeleteUser removes every session belonging to the given username and
// reports how many were dropped. Used on sign-out and account deletion so
// stale tokens do not outlive the account.
func (s *MemorySessionStore) DeleteUser(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, entry := range s.entries {
		if entry.username == username {
			delete(s.entries, token)
			purged++
		}
	}

	return purged
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
