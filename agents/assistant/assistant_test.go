package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()
	rc := &core.RunContext{
		Context:   context.Background(),
		AgentID:   AgentID,
		SessionID: "sess-1",
		RunID:     "run-1",
		Session:   core.NewSession(AgentID, "sess-1", "GHOST"),
		Logger:    zerolog.Nop(),
	}
	return core.NewToolContext(rc, "call-1")
}

func TestWeatherTool(t *testing.T) {
	tl := newWeatherTool()

	res, err := tl.Call(newToolContext(t), map[string]any{"city": "Taipei"})
	require.NoError(t, err)
	m := res.(map[string]any)
	assert.Equal(t, "success", m["status"])
	assert.Contains(t, m["report"], "Taipei")

	res, err = tl.Call(newToolContext(t), map[string]any{"city": "Atlantis"})
	require.NoError(t, err)
	m = res.(map[string]any)
	assert.Equal(t, "error", m["status"])
}

func TestTimeTool(t *testing.T) {
	tl := newTimeTool()

	res, err := tl.Call(newToolContext(t), map[string]any{"city": "tokyo"})
	require.NoError(t, err)
	m := res.(map[string]any)
	require.Equal(t, "success", m["status"])
	report := m["report"].(string)
	assert.True(t, strings.HasPrefix(report, "The current time in tokyo is "))

	res, err = tl.Call(newToolContext(t), map[string]any{"city": "Gotham"})
	require.NoError(t, err)
	assert.Equal(t, "error", res.(map[string]any)["status"])
}

func TestDescriptorWorksForGuests(t *testing.T) {
	// The assistant's gate lists no required tools, so nothing is blocked
	// for an unregistered session.
	d := NewDescriptor(nil, nil)

	require.Equal(t, AgentID, d.ID)
	require.Len(t, d.ToolMiddleware, 1)

	base := func(tc *core.ToolContext, tool core.Tool, args map[string]any) (any, error) {
		return tool.Call(tc, args)
	}
	h := core.ChainToolMiddleware(base, d.ToolMiddleware...)

	res, err := h(newToolContext(t), newWeatherTool(), map[string]any{"city": "Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "success", res.(map[string]any)["status"])
}
