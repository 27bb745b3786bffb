package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ProviderMock, cfg.ModelProvider)
	assert.Equal(t, 2*time.Second, cfg.DirectoryTimeout)
	assert.Equal(t, 10, cfg.MaxModelCalls)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DIRECTORY_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, ProviderOpenAI, cfg.ModelProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.DirectoryTimeout)
}

func TestValidation(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "openai")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("MODEL_PROVIDER", "azure")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MODEL_PROVIDER", "anthropic")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MODEL_PROVIDER", "warp-drive")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown MODEL_PROVIDER")
}
