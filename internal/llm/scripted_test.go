package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScripted_PlaysResponsesInOrder(t *testing.T) {
	gen := NewScripted("first", "second")

	resp, err := gen.Generate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "first", resp)

	resp, err = gen.Generate(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "second", resp)

	// Exhausted scripts repeat the last response.
	resp, err = gen.Generate(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, "second", resp)
}

func TestScripted_RecordsPrompts(t *testing.T) {
	gen := NewScripted("x")
	_, _ = gen.Generate(context.Background(), "one")
	_, _ = gen.Generate(context.Background(), "two")

	assert.Equal(t, []string{"one", "two"}, gen.Prompts())
}

func TestScripted_TriggeredStepsMatchBySubstring(t *testing.T) {
	gen := NewScriptedFromScenario(&Scenario{
		Name: "branching",
		Steps: []ScenarioStep{
			{Trigger: "research analyst", Text: `{"insurance_type": "health"}`},
			{Trigger: "insurance advisor", Text: "The report."},
		},
	})

	resp, err := gen.Generate(context.Background(), "You are a research analyst. Extract facts.")
	require.NoError(t, err)
	assert.Equal(t, `{"insurance_type": "health"}`, resp)

	resp, err = gen.Generate(context.Background(), "You are a professional insurance advisor.")
	require.NoError(t, err)
	assert.Equal(t, "The report.", resp)
}

func TestScripted_GenerateErrorOption(t *testing.T) {
	wantErr := errors.New("boom")
	gen := NewScriptedFromScenario(
		&Scenario{Name: "failing", Steps: []ScenarioStep{{Text: "x"}}},
		WithGenerateError(wantErr),
	)

	_, err := gen.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, wantErr)
}

func TestScripted_DelayHonorsContext(t *testing.T) {
	gen := NewScriptedFromScenario(
		&Scenario{Name: "slow", Steps: []ScenarioStep{{Text: "x"}}},
		WithResponseDelay(time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gen.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestScripted_EmptyScriptReturnsEmptyText(t *testing.T) {
	gen := NewScripted()
	resp, err := gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, resp)
}
