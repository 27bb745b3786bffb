package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

type noopRunner struct{}

func (noopRunner) Run(rc *core.RunContext) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Descriptor{ID: "concierge", Name: "Concierge", Runner: noopRunner{}}))

	d, err := r.Get("concierge")
	require.NoError(t, err)
	assert.Equal(t, "concierge", d.ID)
	assert.Equal(t, "Concierge", d.Name)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := New()

	_, err := r.Get("nope")
	assert.True(t, errors.Is(err, ErrAgentNotFound))
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Descriptor{ID: "a", Runner: noopRunner{}}))
	err := r.Register(Descriptor{ID: "a", Runner: noopRunner{}})
	assert.True(t, errors.Is(err, ErrDuplicateAgent))
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	r := New()

	assert.Error(t, r.Register(Descriptor{Runner: noopRunner{}}))
	assert.Error(t, r.Register(Descriptor{ID: "norunner"}))
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	r := New()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(Descriptor{ID: id, Runner: noopRunner{}}))
	}

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}
