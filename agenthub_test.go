package agenthub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/agent"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/registry"
)

func TestHubChat(t *testing.T) {
	hub := New()

	mock := model.NewMockModel("mock")
	mock.QueueTurn(model.MockTurn{Text: "hi Alice"})

	runner := agent.New("helper", mock, func(o *agent.Options) {
		o.EnableStreaming = false
	})
	require.NoError(t, hub.Register(registry.Descriptor{
		ID:     "helper",
		Name:   "Helper",
		Runner: runner,
	}))

	require.Len(t, hub.Agents(), 1)

	ex, err := hub.Chat(context.Background(), "helper", "EMP001", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hi Alice", ex.Response)
	assert.Equal(t, "Alice", ex.UserName)

	sess, err := hub.CreateSession(context.Background(), "helper", "EMP002")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
}
