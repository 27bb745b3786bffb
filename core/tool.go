package core

// Tool declares a callable capability an agent can invoke during a run.
// Parameters returns a JSON Schema (as a generic map) describing the
// accepted arguments.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(tc *ToolContext, args map[string]any) (any, error)
}

// ToolHandler executes a tool with the given arguments. The dispatcher
// composes the base handler with registered middleware before a run starts.
type ToolHandler func(tc *ToolContext, t Tool, args map[string]any) (any, error)

// ToolMiddleware wraps a ToolHandler, observing or altering invocations
// before they reach the tool. Middleware may short-circuit by returning a
// result without calling next.
type ToolMiddleware func(next ToolHandler) ToolHandler

// ChainToolMiddleware composes middleware around a base handler. The first
// middleware in the slice becomes the outermost wrapper.
func ChainToolMiddleware(base ToolHandler, mw ...ToolMiddleware) ToolHandler {
	h := base
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
