package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev), "each line must be a standalone JSON object")
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestLogger_WritesSessionLifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "audit.jsonl")

	log, err := NewLogger(path, "session-1")
	require.NoError(t, err)

	require.NoError(t, log.LogSessionStart("ollama", "llama3"))
	require.NoError(t, log.LogUserQuery("compare plans"))
	require.NoError(t, log.LogStageStart("research"))
	require.NoError(t, log.LogLLMRequest("research", 256))
	require.NoError(t, log.LogStageComplete("research", 1500*time.Millisecond, 420))
	require.NoError(t, log.LogParseFallback(420))
	require.NoError(t, log.LogReportSaved("report.txt", 2048))
	require.NoError(t, log.LogError("writer", errors.New("backend down")))
	require.NoError(t, log.LogSessionEnd())
	require.NoError(t, log.Close())

	events := readEvents(t, path)
	require.Len(t, events, 9)

	types := make([]EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
		assert.Equal(t, "session-1", ev.SessionID)
		assert.False(t, ev.Timestamp.IsZero())
	}
	assert.Equal(t, []EventType{
		EventTypeSessionStart,
		EventTypeUserQuery,
		EventTypeStageStart,
		EventTypeLLMRequest,
		EventTypeStageComplete,
		EventTypeParseFallback,
		EventTypeReportSaved,
		EventTypeError,
		EventTypeSessionEnd,
	}, types)

	assert.Equal(t, "llama3", events[0].Data["model"])
	assert.Equal(t, "compare plans", events[1].Data["query"])
	assert.Equal(t, "research", events[2].Stage)
	assert.Equal(t, float64(256), events[3].Data["prompt_bytes"])
	assert.Equal(t, float64(1500), events[4].Data["duration_ms"])
	assert.Equal(t, "backend down", events[7].Data["error"])
}

func TestLogger_AppendsAcrossSessions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "audit.jsonl")

	first, err := NewLogger(path, "session-1")
	require.NoError(t, err)
	require.NoError(t, first.LogSessionStart("ollama", "llama3"))
	require.NoError(t, first.Close())

	second, err := NewLogger(path, "session-2")
	require.NoError(t, err)
	require.NoError(t, second.LogSessionStart("ollama", "llama3"))
	require.NoError(t, second.Close())

	events := readEvents(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "session-1", events[0].SessionID)
	assert.Equal(t, "session-2", events[1].SessionID)
}

func TestLogger_NilIsSafe(t *testing.T) {
	var log *Logger

	assert.NoError(t, log.LogSessionStart("ollama", "llama3"))
	assert.NoError(t, log.LogUserQuery("q"))
	assert.NoError(t, log.LogStageStart("research"))
	assert.NoError(t, log.LogLLMRequest("research", 1))
	assert.NoError(t, log.LogStageComplete("research", time.Second, 1))
	assert.NoError(t, log.LogParseFallback(1))
	assert.NoError(t, log.LogReportSaved("p", 1))
	assert.NoError(t, log.LogError("writer", errors.New("x")))
	assert.NoError(t, log.LogSessionEnd())
	assert.NoError(t, log.Close())
}

func TestNewLogger_UnwritablePathFails(t *testing.T) {
	_, err := NewLogger("/nonexistent-dir/audit.jsonl", "s")
	assert.Error(t, err)
}
