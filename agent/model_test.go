package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/logging"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/tool"
)

// captureModel records the last request and replies with fixed text.
type captureModel struct {
	lastReq model.Request
	reply   string
}

func (c *captureModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	c.lastReq = req
	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	respCh <- model.Response{
		Content:      core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: c.reply}}},
		FinishReason: "stop",
	}
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (c *captureModel) Info() model.Info { return model.Info{Name: "capture", Provider: "mock"} }

func newRunContext(sess *core.Session) *core.RunContext {
	return &core.RunContext{
		Context:     context.Background(),
		AgentID:     sess.AgentID,
		SessionID:   sess.ID,
		RunID:       "run-1",
		UserID:      sess.UserID,
		UserMessage: "hello",
		Session:     sess,
		Logger:      logging.Nop(),
	}
}

// runAgent drives Run while draining the emit channel, returning all events.
func runAgent(t *testing.T, a *ModelAgent, rc *core.RunContext) ([]core.Event, error) {
	t.Helper()

	events := make(chan core.Event, 64)
	rc.Emit = events

	done := make(chan error, 1)
	go func() {
		done <- a.Run(rc)
		close(events)
	}()

	var out []core.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out, <-done
}

func seedUserMessage(sess *core.Session, text string) {
	sess.AddEvent(core.NewUserMessageEvent("run-1", text))
}

func TestModelAgent_SimpleResponse(t *testing.T) {
	m := model.NewMockModel("test")
	m.AddResponse("hello", "hi there")

	a := New("concierge", m, func(o *Options) { o.EnableStreaming = false })

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "hello")

	events, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)
	require.NotEmpty(t, events)

	final := events[len(events)-1]
	assert.Equal(t, "hi there", final.Text())
	assert.True(t, final.IsFinalResponse())
	assert.Equal(t, "concierge", final.Author)

	// Non-partial events are persisted into session history.
	history := sess.GetConversationHistory()
	assert.Equal(t, "hi there", history[len(history)-1].Text())
}

func TestModelAgent_StreamingFragments(t *testing.T) {
	m := model.NewMockModel("test")
	m.AddResponse("hello", "hey")

	a := New("concierge", m)

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "hello")

	events, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)

	var fragments strings.Builder
	for _, ev := range events[:len(events)-1] {
		assert.True(t, ev.IsPartial())
		fragments.WriteString(ev.Text())
	}
	assert.Equal(t, "hey", fragments.String())
	assert.False(t, events[len(events)-1].IsPartial())

	// Fragments never land in history, only the final response does.
	count := 0
	for _, ev := range sess.GetConversationHistory() {
		if ev.Content.Role == "assistant" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestModelAgent_ToolCallLoop(t *testing.T) {
	m := model.NewMockModel("test")
	m.QueueTurn(model.MockTurn{ToolCalls: []core.FunctionCall{{ID: "fc-1", Name: "get_weather", Arguments: `{"city":"Taipei"}`}}})
	m.QueueTurn(model.MockTurn{Text: "It is sunny in Taipei."})

	executed := false
	weather := tool.NewFunctionTool("get_weather", "Get weather", map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
		"required":   []string{"city"},
	}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		executed = true
		return map[string]any{"city": args["city"], "forecast": "sunny"}, nil
	})

	a := New("concierge", m, func(o *Options) {
		o.EnableStreaming = false
		o.Tools = []core.Tool{weather}
	})

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "weather in Taipei?")

	events, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)
	assert.True(t, executed)

	var sawCall, sawResponse bool
	for _, ev := range events {
		if len(ev.GetFunctionCalls()) > 0 {
			sawCall = true
		}
		if len(ev.GetFunctionResponses()) > 0 {
			sawResponse = true
			assert.Equal(t, "get_weather", ev.GetFunctionResponses()[0].Name)
		}
	}
	assert.True(t, sawCall)
	assert.True(t, sawResponse)
	assert.Equal(t, "It is sunny in Taipei.", events[len(events)-1].Text())
}

func TestModelAgent_UnknownToolBecomesErrorResponse(t *testing.T) {
	m := model.NewMockModel("test")
	m.QueueTurn(model.MockTurn{ToolCalls: []core.FunctionCall{{ID: "fc-1", Name: "no_such_tool", Arguments: `{}`}}})
	m.QueueTurn(model.MockTurn{Text: "Sorry, I cannot do that."})

	a := New("concierge", m, func(o *Options) { o.EnableStreaming = false })

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "do it")

	events, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)

	var errResp *core.FunctionResponse
	for _, ev := range events {
		for _, fr := range ev.GetFunctionResponses() {
			frCopy := fr
			errResp = &frCopy
		}
	}
	require.NotNil(t, errResp)
	assert.Contains(t, errResp.Error, "not found")
}

func TestModelAgent_InstructionTemplateRendersState(t *testing.T) {
	cm := &captureModel{reply: "ok"}

	a := New("concierge", cm, func(o *Options) {
		o.EnableStreaming = false
		o.Instruction = NewInstructionFromText("You are assisting {{.userName}} from {{.department}}.")
	})

	sess := core.NewSession("concierge", "s1", "EMP001")
	sess.SetState(core.StateKeyUserName, "Alice")
	sess.SetState(core.StateKeyDepartment, "Engineering")
	seedUserMessage(sess, "hello")

	_, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)
	assert.Equal(t, "You are assisting Alice from Engineering.", cm.lastReq.Instructions)
}

func TestModelAgent_BudgetBoundsToolLoop(t *testing.T) {
	m := model.NewMockModel("test")
	// Endless tool-call turns would loop forever without the budget.
	for i := 0; i < 5; i++ {
		m.QueueTurn(model.MockTurn{ToolCalls: []core.FunctionCall{{ID: "fc", Name: "noop", Arguments: `{}`}}})
	}

	noop := tool.NewFunctionTool("noop", "No-op", map[string]any{"type": "object"}, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return "ok", nil
	})

	a := New("concierge", m, func(o *Options) {
		o.EnableStreaming = false
		o.Tools = []core.Tool{noop}
	})

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "loop")

	rc := newRunContext(sess)
	rc.Budget = core.NewCallBudget(2)

	_, err := runAgent(t, a, rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded max model calls")
}

func TestModelAgent_ToolDefinitionsExposed(t *testing.T) {
	cm := &captureModel{reply: "ok"}

	echo := tool.NewFunctionTool("echo", "Echo args", map[string]any{"type": "object"}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args, nil
	})

	a := New("concierge", cm, func(o *Options) {
		o.EnableStreaming = false
		o.Tools = []core.Tool{echo}
	})

	sess := core.NewSession("concierge", "s1", "EMP001")
	seedUserMessage(sess, "hello")

	_, err := runAgent(t, a, newRunContext(sess))
	require.NoError(t, err)
	require.Len(t, cm.lastReq.Tools, 1)
	assert.Equal(t, "echo", cm.lastReq.Tools[0].Function.Name)
}
