package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached_RepeatedPromptHitsCache(t *testing.T) {
	inner := NewScripted("answer one", "answer two")
	cached, err := NewCached(inner, 8)
	require.NoError(t, err)

	resp, err := cached.Generate(context.Background(), "same prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer one", resp)

	resp, err = cached.Generate(context.Background(), "same prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer one", resp, "the cached answer is pinned")

	assert.Len(t, inner.Prompts(), 1, "the backend is called once per distinct prompt")
}

func TestCached_DistinctPromptsMiss(t *testing.T) {
	inner := NewScripted("one", "two")
	cached, err := NewCached(inner, 8)
	require.NoError(t, err)

	resp, _ := cached.Generate(context.Background(), "a")
	assert.Equal(t, "one", resp)
	resp, _ = cached.Generate(context.Background(), "b")
	assert.Equal(t, "two", resp)

	assert.Len(t, inner.Prompts(), 2)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	wantErr := errors.New("transient")
	failing := NewScriptedFromScenario(
		&Scenario{Name: "failing", Steps: []ScenarioStep{{Text: "x"}}},
		WithGenerateError(wantErr),
	)
	cached, err := NewCached(failing, 8)
	require.NoError(t, err)

	_, err = cached.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, wantErr)

	// A second call goes back to the backend.
	_, err = cached.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, wantErr)
	assert.Len(t, failing.Prompts(), 2)
}

func TestCached_DelegatesIdentity(t *testing.T) {
	inner := NewScripted("x")
	cached, err := NewCached(inner, 2)
	require.NoError(t, err)

	assert.Equal(t, inner.Name(), cached.Name())
	assert.Equal(t, inner.Model(), cached.Model())
}

func TestCached_InvalidSizeFails(t *testing.T) {
	_, err := NewCached(NewScripted("x"), 0)
	assert.Error(t, err)
}
