package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLevels(t *testing.T) {
	t.Helper()
	require.NoError(t, Initialize("info", map[string]string{}))
}

func TestInitialize_SetsDefaultLevel(t *testing.T) {
	resetLevels(t)

	require.NoError(t, Initialize("debug"))
	logger := GetLogger("anything")
	assert.Equal(t, DEBUG, logger.level)

	require.NoError(t, Initialize("error"))
	logger = GetLogger("anything")
	assert.Equal(t, ERROR, logger.level)
}

func TestInitialize_InvalidLevelFails(t *testing.T) {
	assert.Error(t, Initialize("verbose"))
}

func TestGetLogger_PackageOverride(t *testing.T) {
	resetLevels(t)

	require.NoError(t, Initialize("info", map[string]string{
		"llm": "debug",
	}))

	assert.Equal(t, DEBUG, GetLogger("llm").level)
	assert.Equal(t, INFO, GetLogger("pipeline").level)
}

func TestGetLogger_WildcardOverride(t *testing.T) {
	resetLevels(t)

	require.NoError(t, Initialize("info", map[string]string{
		"pipeline.*": "debug",
	}))

	assert.Equal(t, DEBUG, GetLogger("pipeline.research").level)
	assert.Equal(t, DEBUG, GetLogger("pipeline.writer").level)
	assert.Equal(t, INFO, GetLogger("pipeline").level, "the wildcard matches children only")
	assert.Equal(t, INFO, GetLogger("llm").level)
}

func TestGetLogger_ExactMatchBeatsWildcard(t *testing.T) {
	resetLevels(t)

	require.NoError(t, Initialize("info", map[string]string{
		"pipeline.*":        "warn",
		"pipeline.research": "debug",
	}))

	assert.Equal(t, DEBUG, GetLogger("pipeline.research").level)
	assert.Equal(t, WARN, GetLogger("pipeline.writer").level)
}

func TestSetPackageLogLevels_InvalidLevelFails(t *testing.T) {
	resetLevels(t)
	assert.Error(t, SetPackageLogLevels(map[string]string{"llm": "loud"}))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": DEBUG,
		"INFO":  INFO,
		"Warn":  WARN,
		"error": ERROR,
		"FATAL": FATAL,
	}
	for input, want := range cases {
		level, err := parseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, level)
	}

	_, err := parseLevel("trace")
	assert.Error(t, err)
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "LEVEL(9)", LogLevel(9).String())
}

func TestWithField_DoesNotMutateParent(t *testing.T) {
	resetLevels(t)

	parent := GetLogger("test")
	child := parent.WithField("request_id", "abc")

	assert.Empty(t, parent.fields)
	assert.Equal(t, "abc", child.fields["request_id"])
}

func TestWithFields_Merges(t *testing.T) {
	resetLevels(t)

	logger := GetLogger("test").
		WithField("a", 1).
		WithFields(Field("b", 2), Field("a", 3))

	assert.Equal(t, 3, logger.fields["a"], "later fields override earlier ones")
	assert.Equal(t, 2, logger.fields["b"])
}

func TestWithName_AppendsComponent(t *testing.T) {
	resetLevels(t)

	logger := GetLogger("llm").WithName("ollama")
	assert.Equal(t, "llm.ollama", logger.name)
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, matchesPattern("llm", "llm"))
	assert.True(t, matchesPattern("pipeline.research", "pipeline.*"))
	assert.False(t, matchesPattern("pipeline", "pipeline.*"))
	assert.False(t, matchesPattern("pipelines.x", "pipeline.*"))
	assert.False(t, matchesPattern("llm", "config"))
}
