// Package gate implements the tool invocation gate: a middleware that
// validates every tool call an agent attempts against session state and
// augments its arguments before execution.
//
// Denials are not errors. A blocked call yields a substituted tool result
// carrying the configured denial message, so the agent can relay it
// conversationally instead of the transport failing. Identity is ambient:
// the gate injects the session's user id into tool arguments at the
// boundary, which is why tools never ask the end user "what is your ID".
package gate

import (
	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/eventlog"
)

// DefaultDeniedMessage is returned as the tool result when a restricted tool
// is invoked by an unregistered user and no custom message is configured.
const DefaultDeniedMessage = "Unable to verify your identity. Please make sure you are logged in; contact IT support if the problem persists."

// Config declares which tools require a registered user.
type Config struct {
	// RequiredTools lists tool names that must not execute for
	// unregistered users. Ignored when RequireAll is set.
	RequiredTools []string

	// RequireAll restricts every tool regardless of RequiredTools.
	RequireAll bool

	// DeniedMessage is substituted as the tool result on denial. Empty
	// falls back to DefaultDeniedMessage.
	DeniedMessage string
}

// Gate intercepts tool calls as a core.ToolMiddleware.
type Gate struct {
	required      map[string]struct{}
	requireAll    bool
	deniedMessage string
	log           *eventlog.Log
}

// New builds a Gate from configuration. The event log may be nil if the
// caller records tool activity elsewhere.
func New(cfg Config, log *eventlog.Log) *Gate {
	required := make(map[string]struct{}, len(cfg.RequiredTools))
	for _, name := range cfg.RequiredTools {
		required[name] = struct{}{}
	}

	msg := cfg.DeniedMessage
	if msg == "" {
		msg = DefaultDeniedMessage
	}

	return &Gate{
		required:      required,
		requireAll:    cfg.RequireAll,
		deniedMessage: msg,
		log:           log,
	}
}

// Middleware returns the gate as a tool middleware. For every invocation it:
//
//  1. Denies restricted tools when the session's user is not registered,
//     substituting {"status": "blocked", "error_message": <message>} as the
//     tool result without executing the tool.
//  2. Injects the session's user id under the "user_id" argument when the
//     tool's schema declares that property and the caller did not supply
//     one. Caller-supplied values are never overwritten.
//  3. Records every call, allowed or denied, to the event log around the
//     underlying execution.
func (g *Gate) Middleware() core.ToolMiddleware {
	return func(next core.ToolHandler) core.ToolHandler {
		return func(tc *core.ToolContext, t core.Tool, args map[string]any) (any, error) {
			g.record(eventlog.StageToolCalled, tc, t, map[string]any{"args": args})

			if g.restricted(t.Name()) && !tc.IsRegistered() {
				logger := tc.Logger()
				logger.Warn().
					Str("tool", t.Name()).
					Str("session_id", tc.SessionID()).
					Msg("tool call blocked for unregistered user")

				result := map[string]any{
					"status":        "blocked",
					"error_message": g.deniedMessage,
				}
				g.record(eventlog.StageToolBlocked, tc, t, map[string]any{"result": result})
				return result, nil
			}

			if args == nil {
				args = map[string]any{}
			}
			if _, supplied := args["user_id"]; !supplied && schemaDeclaresUserID(t.Parameters()) {
				if uid, ok := tc.GetState(core.StateKeyUserID); ok {
					args["user_id"] = uid
				}
			}

			result, err := next(tc, t, args)

			detail := map[string]any{"result": result}
			if err != nil {
				detail["error"] = err.Error()
			}
			g.record(eventlog.StageToolResulted, tc, t, detail)

			return result, err
		}
	}
}

// restricted reports whether the named tool requires a registered user.
func (g *Gate) restricted(toolName string) bool {
	if g.requireAll {
		return true
	}
	_, ok := g.required[toolName]
	return ok
}

func (g *Gate) record(stage eventlog.Stage, tc *core.ToolContext, t core.Tool, detail map[string]any) {
	if g.log == nil {
		return
	}
	g.log.Record(eventlog.Entry{
		Stage:     stage,
		AgentID:   tc.AgentID(),
		SessionID: tc.SessionID(),
		RunID:     tc.RunID(),
		Tool:      t.Name(),
		Detail:    detail,
	})
}

// schemaDeclaresUserID reports whether the tool's JSON schema has a user_id
// property at the top level.
func schemaDeclaresUserID(schema map[string]any) bool {
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = props["user_id"]
	return ok
}
