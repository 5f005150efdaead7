package utils

import (
	"sync"
	"time"

	"bbq-storefront/cart"
	"bbq-storefront/checkout"

	"github.com/google/uuid"
)

// Session is one shopper's cart and checkout progress. Handlers hold the
// session lock for the whole request so a shopper's requests apply one at a
// time, in the order they arrive.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Flow
	LastSeen time.Time

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// ResetCheckout starts a fresh checkout, e.g. after an order is placed.
func (s *Session) ResetCheckout() {
	s.Checkout = checkout.NewFlow()
}

// SessionStore keeps sessions in memory
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (ss *SessionStore) newSession(id string) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.NewStore(cart.UUIDSource{}),
		Checkout: checkout.NewFlow(),
		LastSeen: ss.now(),
	}
}

// Create starts a session with an empty cart
func (ss *SessionStore) Create() *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.newSession(uuid.NewString())
	ss.sessions[s.ID] = s
	return s
}

// Get retrieves a session by ID and marks it as seen
func (ss *SessionStore) Get(id string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, exists := ss.sessions[id]
	if exists {
		s.LastSeen = ss.now()
	}
	return s, exists
}

// GetOrCreate returns the session for a verified token, recreating an empty
// one if it was dropped (idle cleanup or a restart).
func (ss *SessionStore) GetOrCreate(id string) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, exists := ss.sessions[id]; exists {
		s.LastSeen = ss.now()
		return s
	}
	s := ss.newSession(id)
	ss.sessions[id] = s
	return s
}

func (ss *SessionStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// CleanupIdle removes sessions not seen within ttl and returns how many
// were removed.
func (ss *SessionStore) CleanupIdle(ttl time.Duration) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cutoff := ss.now().Add(-ttl)
	removed := 0
	for id, s := range ss.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}
