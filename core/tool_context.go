package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ToolContext provides a constrained, auditable surface for tool / function
// implementations invoked by an agent. Tools read and mutate session state
// through it rather than holding the session directly.
type ToolContext struct {
	runCtx         *RunContext
	functionCallID string
}

// NewToolContext constructs a tool context bound to a parent RunContext
// and unique functionCallID.
func NewToolContext(runCtx *RunContext, functionCallID string) *ToolContext {
	return &ToolContext{runCtx: runCtx, functionCallID: functionCallID}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// AgentID returns the agent the tool is running under.
func (tc *ToolContext) AgentID() string { return tc.runCtx.AgentID }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.runCtx.SessionID }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() zerolog.Logger { return tc.runCtx.Logger }

// GetState retrieves the session state value for the given key.
func (tc *ToolContext) GetState(k string) (any, bool) {
	if tc.runCtx.Session == nil {
		return nil, false
	}
	return tc.runCtx.Session.GetState(k)
}

// SetState writes a session state value, immediately visible to subsequent
// tool calls and instruction rendering within the same session.
func (tc *ToolContext) SetState(k string, v any) {
	if tc.runCtx.Session == nil {
		return
	}
	tc.runCtx.Session.SetState(k, v)
}

// IsRegistered reports whether the session's user was verified against the
// identity directory.
func (tc *ToolContext) IsRegistered() bool {
	if tc.runCtx.Session == nil {
		return false
	}
	return tc.runCtx.Session.IsRegistered()
}

// GetSessionHistory returns conversation history (filtered) for context.
func (tc *ToolContext) GetSessionHistory() []Event {
	if tc.runCtx.Session == nil {
		return nil
	}
	return tc.runCtx.Session.GetConversationHistory()
}

// Validate performs a structural sanity check of the context.
func (tc *ToolContext) Validate() error {
	if tc.runCtx == nil || tc.runCtx.SessionID == "" || tc.functionCallID == "" {
		return fmt.Errorf("invalid ToolContext")
	}
	return nil
}
