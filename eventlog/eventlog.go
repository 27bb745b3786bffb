// Package eventlog records the lifecycle of dispatch requests for diagnostics.
//
// Every request passing through the dispatcher produces an ordered trail of
// entries (request received, tool calls and results, response produced,
// completion or failure). Recording is strictly observational: a failure
// inside the log must never alter request handling, so Record swallows
// panics and never returns an error.
package eventlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Stage identifies a point in the request lifecycle.
type Stage string

// Lifecycle stages emitted by the dispatcher and tool gate.
const (
	StageRequestReceived  Stage = "request_received"
	StageToolCalled       Stage = "tool_called"
	StageToolResulted     Stage = "tool_resulted"
	StageToolBlocked      Stage = "tool_blocked"
	StageResponseProduced Stage = "response_produced"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

// Entry is a single recorded lifecycle point.
type Entry struct {
	Stage     Stage          `json:"stage"`
	AgentID   string         `json:"agent_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Options configures a Log.
type Options struct {
	// Capacity bounds the number of retained entries. Oldest entries are
	// discarded first. Zero means the default of 1024.
	Capacity int
}

// Log is an in-memory, bounded trail of lifecycle entries that mirrors every
// entry to a structured logger. Safe for concurrent use.
type Log struct {
	logger   zerolog.Logger
	capacity int

	mu      sync.RWMutex
	entries []Entry
}

// New creates a Log mirroring entries to the given logger.
func New(logger zerolog.Logger, optFns ...func(o *Options)) *Log {
	opts := Options{Capacity: 1024}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Capacity <= 0 {
		opts.Capacity = 1024
	}
	return &Log{logger: logger, capacity: opts.Capacity}
}

// Record appends an entry to the trail. It never panics and never blocks
// request handling on failure.
func (l *Log) Record(e Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("eventlog record panicked")
		}
	}()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	l.logger.Info().
		Str("stage", string(e.Stage)).
		Str("agent_id", e.AgentID).
		Str("session_id", e.SessionID).
		Str("run_id", e.RunID).
		Str("user_id", e.UserID).
		Str("tool", e.Tool).
		Fields(map[string]any{"detail": e.Detail}).
		Msg("dispatch event")
}

// Entries returns a copy of the retained trail in recording order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByRun returns the retained entries for a single run in recording order.
func (l *Log) ByRun(runID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, e := range l.entries {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out
}
