package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfeller/coverbrief/internal/llm"
	"github.com/mfeller/coverbrief/internal/pipeline"
)

func TestResearchStage_ParsesJSONResponse(t *testing.T) {
	gen := llm.NewScripted(`{"insurance_type": "health", "exclusions": ["pre-existing conditions"]}`)
	stage := New(gen, nil)

	state := pipeline.NewState("compare health insurance plans")
	state, err := stage.Run(context.Background(), state)
	require.NoError(t, err)

	rd, ok := state.ResearchData()
	require.True(t, ok)
	assert.True(t, rd.IsParsed())
	assert.Equal(t, "health", rd.Facts()["insurance_type"])

	// The query must survive the stage untouched.
	assert.Equal(t, "compare health insurance plans", state.UserQuery())
}

func TestResearchStage_PromptEmbedsQuery(t *testing.T) {
	gen := llm.NewScripted(`{}`)
	stage := New(gen, nil)

	_, err := stage.Run(context.Background(), pipeline.NewState("term life for seniors"))
	require.NoError(t, err)

	prompts := gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "term life for seniors")
	assert.Contains(t, prompts[0], "Return ONLY valid JSON")
}

func TestResearchStage_FencedJSONIsParsed(t *testing.T) {
	gen := llm.NewScripted("```json\n{\"insurance_type\": \"motor\"}\n```")
	stage := New(gen, nil)

	state, err := stage.Run(context.Background(), pipeline.NewState("motor cover"))
	require.NoError(t, err)

	rd, ok := state.ResearchData()
	require.True(t, ok)
	assert.True(t, rd.IsParsed())
	assert.Equal(t, "motor", rd.Facts()["insurance_type"])
}

func TestResearchStage_InvalidJSONFallsBackToRawText(t *testing.T) {
	raw := "Here are some facts about health insurance:\n- networks vary"
	gen := llm.NewScripted(raw)
	stage := New(gen, nil)

	state, err := stage.Run(context.Background(), pipeline.NewState("health insurance"))
	require.NoError(t, err, "a malformed response is not an error")

	rd, ok := state.ResearchData()
	require.True(t, ok)
	assert.False(t, rd.IsParsed())
	assert.Equal(t, raw, rd.Raw(), "raw text must be preserved verbatim")
}

func TestResearchStage_NonObjectJSONFallsBack(t *testing.T) {
	gen := llm.NewScripted(`["just", "an", "array"]`)
	stage := New(gen, nil)

	state, err := stage.Run(context.Background(), pipeline.NewState("q"))
	require.NoError(t, err)

	rd, ok := state.ResearchData()
	require.True(t, ok)
	assert.False(t, rd.IsParsed())
}

func TestResearchStage_GeneratorErrorPropagates(t *testing.T) {
	backendErr := errors.New("connection refused")
	gen := llm.NewScriptedFromScenario(
		&llm.Scenario{Name: "failing", Steps: []llm.ScenarioStep{{Text: "x"}}},
		llm.WithGenerateError(backendErr),
	)

	stage := New(gen, nil)
	state, err := stage.Run(context.Background(), pipeline.NewState("q"))

	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, backendErr, err, "backend errors must not be wrapped by the stage")

	_, ok := state.ResearchData()
	assert.False(t, ok, "no research data is written on failure")
}

func TestResearchStage_EmptyQueryStillRuns(t *testing.T) {
	gen := llm.NewScripted(`{"insurance_type": null}`)
	stage := New(gen, nil)

	state, err := stage.Run(context.Background(), pipeline.NewState(""))
	require.NoError(t, err)

	_, ok := state.ResearchData()
	assert.True(t, ok)
}

func TestStripFence_VariantsDecode(t *testing.T) {
	cases := map[string]string{
		"plain fence":        "```\n{\"a\": 1}\n```",
		"language tag":       "```json\n{\"a\": 1}\n```",
		"leading whitespace": "  \n```json\n{\"a\": 1}\n```\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			facts, ok := decodeFacts(input)
			require.True(t, ok)
			assert.Equal(t, float64(1), facts["a"])
		})
	}
}
