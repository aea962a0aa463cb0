package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevelFlags_Default(t *testing.T) {
	level, pkgs, err := parseLogLevelFlags([]string{"info"})
	require.NoError(t, err)
	assert.Equal(t, "info", level)
	assert.Empty(t, pkgs)
}

func TestParseLogLevelFlags_PerPackage(t *testing.T) {
	level, pkgs, err := parseLogLevelFlags([]string{"debug", "llm=warn", "pipeline.research=debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
	assert.Equal(t, map[string]string{
		"llm":               "warn",
		"pipeline.research": "debug",
	}, pkgs)
}

func TestParseLogLevelFlags_ExplicitDefaultKey(t *testing.T) {
	level, pkgs, err := parseLogLevelFlags([]string{"default=error"})
	require.NoError(t, err)
	assert.Equal(t, "error", level)
	assert.Empty(t, pkgs)
}

func TestParseLogLevelFlags_EnvVarLowerPriority(t *testing.T) {
	t.Setenv("LOG_LEVEL_PIPELINE_RESEARCH", "debug")
	t.Setenv("LOG_LEVEL_LLM", "warn")

	level, pkgs, err := parseLogLevelFlags([]string{"info", "llm=error"})
	require.NoError(t, err)
	assert.Equal(t, "info", level)
	assert.Equal(t, "debug", pkgs["pipeline.research"])
	assert.Equal(t, "error", pkgs["llm"], "CLI flags override env vars")
}

func TestParseLogLevelFlags_InvalidLevel(t *testing.T) {
	_, _, err := parseLogLevelFlags([]string{"loud"})
	assert.Error(t, err)

	_, _, err = parseLogLevelFlags([]string{"info", "llm=loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm")
}

func TestConvertEnvKeyToPackageName(t *testing.T) {
	assert.Equal(t, "pipeline.research", convertEnvKeyToPackageName("LOG_LEVEL_PIPELINE_RESEARCH"))
	assert.Equal(t, "llm", convertEnvKeyToPackageName("LOG_LEVEL_LLM"))
}
