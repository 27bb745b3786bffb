// Package core provides the foundational domain types, interfaces and execution
// contexts used by AgentHub. It defines the core abstractions for:
//
//   - Sessions (stateful conversational containers with event history)
//   - Events (immutable communication records for chat and tool activity)
//   - RunContext / ToolContext (scoped execution & tool sandboxing)
//   - Tool, ToolHandler and ToolMiddleware (decoratable tool invocation)
//   - A pluggable SessionStore for session persistence and continuity
//
// The package intentionally keeps implementation concerns (persistence,
// dispatch orchestration, concrete agents) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
