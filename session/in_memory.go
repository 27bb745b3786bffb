package session

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hallwayhq/agenthub/core"
)

// InMemoryStore is a volatile SessionStore implementation storing sessions in
// a process local map keyed by (agentID, sessionID). It is safe for
// concurrent access.
//
// Sessions are returned by reference: identity merges and tool state writes
// must be visible to every holder of the session, so callers share one
// object. The table lock is held only for lookup/insert, never across agent
// runs; per-session field access is guarded by the session's own mutex.
// Two concurrent requests naming the same session id are not serialized.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[storeKey]*core.Session
	created  atomic.Int64
}

type storeKey struct {
	agentID   string
	sessionID string
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[storeKey]*core.Session)}
}

// Create mints a fresh session with a generated id.
func (s *InMemoryStore) Create(agentID, userID string) *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(agentID, userID)
}

// GetOrCreate resolves session continuity for a request. An empty sessionID
// mints a new session; a supplied sessionID must name an existing session
// for the agent, otherwise core.ErrSessionNotFound is returned so that
// conversation continuity is never silently dropped.
func (s *InMemoryStore) GetOrCreate(agentID, userID, sessionID string) (*core.Session, bool, error) {
	if sessionID == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.createLocked(agentID, userID), true, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[storeKey{agentID: agentID, sessionID: sessionID}]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s/%s", core.ErrSessionNotFound, agentID, sessionID)
	}
	return sess, false, nil
}

// Get returns an existing session or core.ErrSessionNotFound.
func (s *InMemoryStore) Get(agentID, sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[storeKey{agentID: agentID, sessionID: sessionID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", core.ErrSessionNotFound, agentID, sessionID)
	}
	return sess, nil
}

// Creations reports how many sessions this store has ever created.
func (s *InMemoryStore) Creations() int64 { return s.created.Load() }

// createLocked allocates and stores a new session; caller must already hold
// the write lock.
func (s *InMemoryStore) createLocked(agentID, userID string) *core.Session {
	sess := core.NewSession(agentID, uuid.NewString(), userID)
	s.sessions[storeKey{agentID: agentID, sessionID: sess.ID}] = sess
	s.created.Add(1)
	return sess
}
