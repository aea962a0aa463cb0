package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scenario.yaml")

	content := `name: health-demo
settings:
  thinking_delay_ms: 50
steps:
  - trigger: "research analyst"
    text: '{"insurance_type": "health"}'
  - trigger: "insurance advisor"
    text: "A structured report."
`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	sc, err := LoadScenario(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, sc)

	assert.Equal(t, "health-demo", sc.Name)
	assert.Equal(t, 50, sc.Settings.ThinkingDelayMs)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, "research analyst", sc.Steps[0].Trigger)
}

func TestLoadScenario_MissingName(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "unnamed.yaml")

	content := `steps:
  - text: "hello"
`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	_, err := LoadScenario(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestLoadScenario_MissingSteps(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "empty.yaml")

	require.NoError(t, os.WriteFile(tmpFile, []byte("name: empty\n"), 0644))

	_, err := LoadScenario(tmpFile)
	assert.Error(t, err)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}
