package dispatch

import "time"

// ToolEvent records one completed tool invocation within an exchange:
// the tool's name, the arguments it ran with (after any gate injection),
// its result, and the offset from the start of the run.
type ToolEvent struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
	Offset    time.Duration  `json:"offset"`
}

// ChatExchange is the fully drained result of a non-streaming chat call:
// the final response text plus every tool event in execution order.
type ChatExchange struct {
	AgentID    string      `json:"agent_id"`
	SessionID  string      `json:"session_id"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name"`
	Response   string      `json:"response"`
	ToolEvents []ToolEvent `json:"tool_events,omitempty"`
}

// StreamEventType discriminates records on a chat stream.
type StreamEventType string

// Stream record types. A stream carries zero or more fragments and tool
// records and always ends with exactly one done record. Runner failures
// surface as an error record immediately before done.
const (
	StreamFragment   StreamEventType = "fragment"
	StreamToolCall   StreamEventType = "tool_call"
	StreamToolResult StreamEventType = "tool_result"
	StreamError      StreamEventType = "error"
	StreamDone       StreamEventType = "done"
)

// StreamEvent is one record on a chat stream. Only the fields relevant to
// its Type are populated.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	Text      string          `json:"text,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Arguments map[string]any  `json:"arguments,omitempty"`
	Result    any             `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}
