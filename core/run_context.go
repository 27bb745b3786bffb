package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// AgentRunner produces the agent side of a conversation turn. Implementations
// emit events through the RunContext until the turn is complete, returning an
// error only for failures that should abort the run.
type AgentRunner interface {
	Run(rc *RunContext) error
}

// RunContext carries execution state & helpers for a single agent run.
// It encapsulates the mutable, per-run execution scope passed to an
// AgentRunner's Run method. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (AgentID, SessionID, RunID, UserID)
//   - The inbound user message
//   - The event emission channel
//   - The resolved Session for state and history access
//   - The composed tool invocation handler (middleware applied)
//   - A per-run model call budget
type RunContext struct {
	Context     context.Context
	AgentID     string
	SessionID   string
	RunID       string
	UserID      string
	UserMessage string
	Emit        chan<- Event
	Session     *Session
	InvokeTool  ToolHandler
	Budget      *CallBudget
	Logger      zerolog.Logger
}

// Done mirrors context.Context's Done.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// EmitEvent appends non-partial events to the session history and forwards
// the event to the consumer, honoring cancellation. Partial streaming
// fragments are forwarded without persisting.
func (rc *RunContext) EmitEvent(ev Event) error {
	if rc.Emit == nil {
		return fmt.Errorf("emit channel not configured")
	}
	if !ev.IsPartial() && rc.Session != nil {
		rc.Session.AddEvent(ev)
	}
	select {
	case <-rc.Context.Done():
		return rc.Context.Err()
	case rc.Emit <- ev:
	}
	return nil
}
