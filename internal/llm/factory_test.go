package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/coverbrief/internal/config"
)

func TestNew_OllamaBackend(t *testing.T) {
	gen, err := New(context.Background(), config.GenerationConfig{
		Backend:     "ollama",
		Model:       "llama3",
		Temperature: 0.7,
		OllamaURL:   "http://localhost:11434",
	})
	require.NoError(t, err)
	assert.IsType(t, &Ollama{}, gen)
	assert.Equal(t, "llama3", gen.Model())
}

func TestNew_CacheWrapsBackend(t *testing.T) {
	gen, err := New(context.Background(), config.GenerationConfig{
		Backend:   "ollama",
		Model:     "llama3",
		OllamaURL: "http://localhost:11434",
		CacheSize: 16,
	})
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, gen)
	assert.Equal(t, "ollama", gen.Name(), "the cache keeps the backend identity")
}

func TestNew_UnknownBackendFails(t *testing.T) {
	_, err := New(context.Background(), config.GenerationConfig{Backend: "gpt2-local"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpt2-local")
}
