// Package audit provides audit logging for pipeline runs. It captures
// session events (queries, stage activity, parse fallbacks, report
// writes) to a JSONL file for debugging and reproducibility.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	// EventTypeSessionStart marks the start of a new session.
	EventTypeSessionStart EventType = "session_start"
	// EventTypeUserQuery marks a submitted user query.
	EventTypeUserQuery EventType = "user_query"
	// EventTypeStageStart marks the start of a pipeline stage.
	EventTypeStageStart EventType = "stage_start"
	// EventTypeStageComplete marks the completion of a pipeline stage.
	EventTypeStageComplete EventType = "stage_complete"
	// EventTypeLLMRequest marks a prompt sent to the generation backend.
	EventTypeLLMRequest EventType = "llm_request"
	// EventTypeParseFallback marks a research response that failed JSON
	// decoding and was kept as raw text.
	EventTypeParseFallback EventType = "parse_fallback"
	// EventTypeReportSaved marks a successful report file write.
	EventTypeReportSaved EventType = "report_saved"
	// EventTypeError marks a failure during a run.
	EventTypeError EventType = "error"
	// EventTypeSessionEnd marks the end of a session.
	EventTypeSessionEnd EventType = "session_end"
)

// Event is a single audit log entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// Type is the event type.
	Type EventType `json:"type"`
	// SessionID is the session identifier.
	SessionID string `json:"session_id"`
	// Stage is the pipeline stage the event belongs to, if any.
	Stage string `json:"stage,omitempty"`
	// Data contains event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Logger writes audit events to a JSONL file. All methods are safe to
// call on a nil *Logger, which makes audit logging strictly optional for
// callers.
type Logger struct {
	file      *os.File
	writer    *bufio.Writer
	mutex     sync.Mutex
	sessionID string
}

// NewLogger creates an audit logger appending to the file at path.
func NewLogger(path, sessionID string) (*Logger, error) {
	// Audit log path is intentionally user-configurable.
	// #nosec G304
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		file:      file,
		writer:    bufio.NewWriter(file),
		sessionID: sessionID,
	}, nil
}

func (l *Logger) write(event Event) error {
	if l == nil {
		return nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	if _, err := l.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	// Flush immediately for crash safety.
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}
	return nil
}

func (l *Logger) event(t EventType, stage string, data map[string]interface{}) Event {
	return Event{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: l.sessionID,
		Stage:     stage,
		Data:      data,
	}
}

// LogSessionStart logs the start of a new session.
func (l *Logger) LogSessionStart(backend, model string) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeSessionStart, "", map[string]interface{}{
		"backend": backend,
		"model":   model,
	}))
}

// LogUserQuery logs a submitted query.
func (l *Logger) LogUserQuery(query string) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeUserQuery, "", map[string]interface{}{
		"query": query,
	}))
}

// LogStageStart logs the start of a pipeline stage.
func (l *Logger) LogStageStart(stage string) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeStageStart, stage, nil))
}

// LogStageComplete logs the completion of a pipeline stage.
func (l *Logger) LogStageComplete(stage string, duration time.Duration, responseBytes int) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeStageComplete, stage, map[string]interface{}{
		"duration_ms":    duration.Milliseconds(),
		"response_bytes": responseBytes,
	}))
}

// LogLLMRequest logs a prompt sent to the backend. The prompt text
// itself is not stored, only its size.
func (l *Logger) LogLLMRequest(stage string, promptBytes int) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeLLMRequest, stage, map[string]interface{}{
		"prompt_bytes": promptBytes,
	}))
}

// LogParseFallback logs a research response kept as raw text.
func (l *Logger) LogParseFallback(responseBytes int) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeParseFallback, "research", map[string]interface{}{
		"response_bytes": responseBytes,
	}))
}

// LogReportSaved logs a successful report write.
func (l *Logger) LogReportSaved(path string, bytes int) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeReportSaved, "", map[string]interface{}{
		"path":  path,
		"bytes": bytes,
	}))
}

// LogError logs a failure during a run.
func (l *Logger) LogError(stage string, err error) error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeError, stage, map[string]interface{}{
		"error": err.Error(),
	}))
}

// LogSessionEnd logs the end of a session.
func (l *Logger) LogSessionEnd() error {
	if l == nil {
		return nil
	}
	return l.write(l.event(EventTypeSessionEnd, "", nil))
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}
	return l.file.Close()
}
