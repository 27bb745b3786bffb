package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/dispatch"
	"github.com/hallwayhq/agenthub/identity"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/registry"
	"github.com/hallwayhq/agenthub/session"
)

func TestSearchMatchesKeywords(t *testing.T) {
	findings := search(newsCorpus, "What is the latest on AI and LLM progress?")
	require.NotEmpty(t, findings)
	assert.Contains(t, findings[0], "GPT-5")

	assert.Empty(t, search(newsCorpus, "best pizza in town"))
}

func TestCollectorsFillStateBeforeWriter(t *testing.T) {
	mock := model.NewMockModel("mock-model")
	mock.QueueTurn(model.MockTurn{Text: "Briefing: AI progress is rapid."})

	reg := registry.New()
	require.NoError(t, reg.Register(NewDescriptor(mock, nil)))
	store := session.NewInMemoryStore()
	d := dispatch.New(reg, store, identity.NewInMemoryDirectory())

	ex, err := d.Chat(context.Background(), AgentID, "EMP001", "Summarize recent AI and LLM research", "")
	require.NoError(t, err)
	assert.Equal(t, "Briefing: AI progress is rapid.", ex.Response)

	sess, err := store.Get(AgentID, ex.SessionID)
	require.NoError(t, err)

	news, ok := sess.GetState(stateKeyNews)
	require.True(t, ok)
	assert.Contains(t, news, "GPT-5")

	papers, ok := sess.GetState(stateKeyPapers)
	require.True(t, ok)
	assert.Contains(t, papers, "Large Language Models")

	stats, ok := sess.GetState(stateKeyStats)
	require.True(t, ok)
	assert.Contains(t, stats, "AI market size")
}

func TestCollectorsReportEmptySources(t *testing.T) {
	mock := model.NewMockModel("mock-model")
	mock.QueueTurn(model.MockTurn{Text: "Nothing relevant on file."})

	reg := registry.New()
	require.NoError(t, reg.Register(NewDescriptor(mock, nil)))
	store := session.NewInMemoryStore()
	d := dispatch.New(reg, store, identity.NewInMemoryDirectory())

	ex, err := d.Chat(context.Background(), AgentID, "GHOST", "tell me about competitive gardening", "")
	require.NoError(t, err)

	sess, err := store.Get(AgentID, ex.SessionID)
	require.NoError(t, err)

	news, _ := sess.GetState(stateKeyNews)
	assert.Equal(t, "No relevant news found.", news)
}
