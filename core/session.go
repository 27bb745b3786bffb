package core

import (
	"errors"
	"sync"
	"time"
)

// Well-known session state keys populated by the identity layer on every
// request. Tools and middleware read these rather than hardcoding strings.
const (
	StateKeyUserID       = "userId"
	StateKeyUserName     = "userName"
	StateKeyDepartment   = "department"
	StateKeyEmail        = "email"
	StateKeyJobTitle     = "jobTitle"
	StateKeyPhone        = "phone"
	StateKeyIsRegistered = "isRegistered"
)

// ErrSessionNotFound is returned by a SessionStore when a caller names a
// session id that does not exist for the given agent.
var ErrSessionNotFound = errors.New("session not found")

// Session represents a conversational container scoped to a single agent,
// tracking mutable key/value state plus an ordered event history. It is safe
// for concurrent access.
//
// Contract:
//   - State mutations update the Updated timestamp
//   - GetEvents returns a defensive copy to avoid external mutation
//   - GetConversationHistory filters events to user/assistant/tool roles and
//     excludes partial streaming fragments
type Session struct {
	ID      string                 `json:"id"`
	AgentID string                 `json:"agent_id"`
	UserID  string                 `json:"user_id"`
	State   map[string]interface{} `json:"state"`
	Events  []Event                `json:"events"`
	Created time.Time              `json:"created"`
	Updated time.Time              `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates a new session for the given agent and user.
func NewSession(agentID, id, userID string) *Session {
	now := time.Now()
	return &Session{ID: id, AgentID: agentID, UserID: userID, State: map[string]interface{}{}, Events: []Event{}, Created: now, Updated: now}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state updating the Updated timestamp.
func (s *Session) SetState(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// ApplyStateDelta merges the provided key/value pairs into State. Keys not
// present in the delta are left untouched.
func (s *Session) ApplyStateDelta(delta map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.State[k] = v
	}
	s.Updated = time.Now()
}

// StateSnapshot returns a shallow copy of the state map safe for iteration
// outside the session lock (e.g. template rendering).
func (s *Session) StateSnapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]interface{}, len(s.State))
	for k, v := range s.State {
		snap[k] = v
	}
	return snap
}

// IsRegistered reports whether the identity layer marked the session's user
// as a verified directory hit.
func (s *Session) IsRegistered() bool {
	v, ok := s.GetState(StateKeyIsRegistered)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// AddEvent appends an event to the history updating the Updated timestamp.
func (s *Session) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
	s.Updated = time.Now()
}

// GetEvents returns a defensive copy of the full event slice.
func (s *Session) GetEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return events
}

// GetConversationHistory returns filtered events suitable for providing
// conversational context to models (excludes partials and non-conversational roles).
func (s *Session) GetConversationHistory() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed := map[string]bool{"user": true, "assistant": true, "tool": true}
	res := make([]Event, 0, len(s.Events))
	for _, ev := range s.Events {
		if ev.Content == nil || !allowed[ev.Content.Role] {
			continue
		}
		if ev.Partial != nil && *ev.Partial {
			continue
		}
		res = append(res, ev)
	}
	return res
}

// SessionStore persists sessions and resolves session continuity per agent.
type SessionStore interface {
	// Create mints a fresh session with a generated id.
	Create(agentID, userID string) *Session

	// GetOrCreate returns the session named by sessionID, creating one when
	// sessionID is empty. The boolean reports whether a new session was
	// created. A non-empty sessionID that does not exist yields
	// ErrSessionNotFound.
	GetOrCreate(agentID, userID, sessionID string) (*Session, bool, error)

	// Get returns an existing session or ErrSessionNotFound.
	Get(agentID, sessionID string) (*Session, error)
}
