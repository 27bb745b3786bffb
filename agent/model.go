package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/internal/util"
	"github.com/hallwayhq/agenthub/model"
)

// boolPtr creates a pointer to a boolean value.
func boolPtr(b bool) *bool {
	return &b
}

// Options configures a ModelAgent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	Instruction        Instruction
	EnableStreaming    bool
	MaxHistoryMessages int
	Tools              []core.Tool
}

// ModelAgent integrates with language models to produce conversation turns.
//
// It supports:
//   - Template-based instruction prompts resolved against session state
//   - Function calling with registered tools routed through the run
//     context's tool handler (where the gate middleware lives)
//   - Streaming responses for real-time interactions
//   - A per-run model call budget to bound runaway tool loops
type ModelAgent struct {
	name               string
	llm                model.Model
	instruction        Instruction
	enableStreaming    bool
	maxHistoryMessages int
	tools              map[string]core.Tool
	toolOrder          []string
}

// New creates a model-backed agent with sensible defaults: streaming
// enabled, a 20-message history window, and a generic assistant prompt.
func New(name string, llm model.Model, optFns ...func(o *Options)) *ModelAgent {
	opts := Options{
		Instruction:        NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		EnableStreaming:    true,
		MaxHistoryMessages: 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		name:               name,
		llm:                llm,
		instruction:        opts.Instruction,
		enableStreaming:    opts.EnableStreaming,
		maxHistoryMessages: opts.MaxHistoryMessages,
		tools:              make(map[string]core.Tool),
	}
	a.RegisterTools(opts.Tools...)

	return a
}

// Name returns the agent's display name used as event author.
func (a *ModelAgent) Name() string { return a.name }

// RegisterTool adds a tool to the agent's capability set.
func (a *ModelAgent) RegisterTool(t core.Tool) {
	if _, exists := a.tools[t.Name()]; !exists {
		a.toolOrder = append(a.toolOrder, t.Name())
	}
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *ModelAgent) RegisterTools(tools ...core.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// Tools returns the registered tools in registration order.
func (a *ModelAgent) Tools() []core.Tool {
	out := make([]core.Tool, 0, len(a.toolOrder))
	for _, name := range a.toolOrder {
		out = append(out, a.tools[name])
	}
	return out
}

// Run implements core.AgentRunner. It loops model turns until a final
// response is emitted: a turn ending in function calls executes them and
// feeds the results into the next turn.
func (a *ModelAgent) Run(rc *core.RunContext) error {
	rc.Logger.Debug().Str("agent", a.name).Str("run_id", rc.RunID).Msg("agent run start")

	for {
		last, err := a.runOnce(rc)
		if err != nil {
			return err
		}
		if last == nil {
			return fmt.Errorf("model produced no response")
		}
		// A function response means the model needs another turn to react.
		if len(last.GetFunctionResponses()) > 0 {
			continue
		}
		if last.IsFinalResponse() {
			rc.Logger.Debug().Str("agent", a.name).Str("run_id", rc.RunID).Msg("agent run complete")
			return nil
		}
	}
}

// runOnce performs one model turn (including any tool executions) and returns
// the last emitted Event.
func (a *ModelAgent) runOnce(rc *core.RunContext) (*core.Event, error) {
	if rc.Budget != nil {
		if err := rc.Budget.Spend(); err != nil {
			return nil, err
		}
	}

	req, err := a.buildRequest(rc)
	if err != nil {
		return nil, err
	}

	respCh, errCh := a.llm.Generate(rc.Context, req)

	var last *core.Event

	for {
		select {
		case <-rc.Done():
			return last, rc.Err()
		case err, ok := <-errCh:
			if ok && err != nil {
				return last, fmt.Errorf("model generation failed: %w", err)
			}
			if !ok {
				errCh = nil
			}
		case resp, ok := <-respCh:
			if !ok {
				// Providers close both channels together; pick up a
				// buffered error before declaring the turn done.
				if errCh != nil {
					if err, ok := <-errCh; ok && err != nil {
						return last, fmt.Errorf("model generation failed: %w", err)
					}
				}
				return last, nil
			}

			ev := core.NewEvent(rc.RunID, a.name)
			content := resp.Content
			ev.Content = &content
			ev.Partial = boolPtr(resp.Partial)
			if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
				ev.TurnComplete = boolPtr(true)
			}

			if err := rc.EmitEvent(ev); err != nil {
				return last, err
			}
			last = &ev

			for _, fnCall := range ev.GetFunctionCalls() {
				respEv, err := a.executeFunctionCall(rc, fnCall)
				if err != nil {
					return last, err
				}
				last = respEv
			}
		}
	}
}

// buildRequest assembles the model request from instructions, bounded
// conversation history and tool definitions.
func (a *ModelAgent) buildRequest(rc *core.RunContext) (model.Request, error) {
	instructions, err := a.instruction.Resolve(rc)
	if err != nil {
		return model.Request{}, fmt.Errorf("resolve instructions: %w", err)
	}
	if rc.Session != nil {
		instructions, err = util.RenderTemplate(instructions, rc.Session.StateSnapshot())
		if err != nil {
			return model.Request{}, fmt.Errorf("render instructions: %w", err)
		}
	}

	var contents []core.Content
	if rc.Session != nil {
		history := rc.Session.GetConversationHistory()
		if a.maxHistoryMessages > 0 && len(history) > a.maxHistoryMessages {
			history = history[len(history)-a.maxHistoryMessages:]
		}
		for _, ev := range history {
			contents = append(contents, *ev.Content)
		}
	}

	req := model.Request{
		Instructions: instructions,
		Contents:     contents,
		Stream:       a.enableStreaming,
	}

	if len(a.toolOrder) > 0 {
		defs := make([]model.ToolDefinition, 0, len(a.toolOrder))
		for _, name := range a.toolOrder {
			t := a.tools[name]
			defs = append(defs, model.ToolDefinition{
				Type: "function",
				Function: model.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}
		req.Tools = defs
	}

	return req, nil
}

// executeFunctionCall routes one function call through the composed tool
// handler and emits the function response event. Tool failures become error
// responses the model can react to, not run failures.
func (a *ModelAgent) executeFunctionCall(rc *core.RunContext, fnCall core.FunctionCall) (*core.Event, error) {
	callID := fnCall.ID
	if callID == "" {
		callID = core.NewID()
	}

	toolCtx := core.NewToolContext(rc, callID)

	start := time.Now()
	result, err := a.invokeTool(rc, toolCtx, fnCall)
	rc.Logger.Info().
		Str("agent", a.name).
		Str("tool", fnCall.Name).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Bool("errored", err != nil).
		Msg("tool executed")

	respEv := core.NewFunctionResponseEvent(rc.RunID, a.name, callID, fnCall.Name, result, err)
	if emitErr := rc.EmitEvent(respEv); emitErr != nil {
		return nil, emitErr
	}

	return &respEv, nil
}

func (a *ModelAgent) invokeTool(rc *core.RunContext, toolCtx *core.ToolContext, fnCall core.FunctionCall) (any, error) {
	t, exists := a.tools[fnCall.Name]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", fnCall.Name)
	}

	args := make(map[string]any)
	if fnCall.Arguments != "" {
		if err := json.Unmarshal([]byte(fnCall.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	if rc.InvokeTool != nil {
		return rc.InvokeTool(toolCtx, t, args)
	}
	return t.Call(toolCtx, args)
}
