package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

func TestInstruction_Static(t *testing.T) {
	i := NewInstructionFromText("be helpful")
	assert.True(t, i.IsStatic())

	text, err := i.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "be helpful", text)
}

func TestInstruction_Provider(t *testing.T) {
	i := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "dynamic for " + rc.UserID, nil
	})
	assert.False(t, i.IsStatic())

	text, err := i.Resolve(&core.RunContext{UserID: "EMP001"})
	require.NoError(t, err)
	assert.Equal(t, "dynamic for EMP001", text)
}

func TestInstruction_ProviderError(t *testing.T) {
	i := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "", errors.New("no instructions")
	})

	_, err := i.Resolve(&core.RunContext{})
	assert.Error(t, err)
}
