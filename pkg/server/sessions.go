package server

import (
	"sync"
	"time"

	"github.com/telarmx/artisan-finder/pkg/catalog"
)

// SessionRegistry maps session ids to screen sessions. Sessions are created
// on first use and dropped after sitting idle for the ttl.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*catalog.ScreenSession
	ttl      time.Duration
	opts     []catalog.Option
}

func NewSessionRegistry(ttl time.Duration, opts ...catalog.Option) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[string]*catalog.ScreenSession),
		ttl:      ttl,
		opts:     opts,
	}
	go r.sweep()
	return r
}

// Get returns the session for the id, creating it when absent.
func (r *SessionRegistry) Get(id string) *catalog.ScreenSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = catalog.NewScreenSession(r.opts...)
		r.sessions[id] = s
	}
	s.Touch()
	return s
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Purge drops sessions idle longer than the ttl, returning how many were
// removed.
func (r *SessionRegistry) Purge() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *SessionRegistry) sweep() {
	for {
		time.Sleep(r.ttl / 2)
		r.Purge()
	}
}
