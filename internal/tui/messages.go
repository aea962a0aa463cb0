// Package tui provides the terminal user interface front end using
// Bubble Tea.
package tui

import (
	"time"

	"github.com/mfeller/coverbrief/internal/pipeline"
)

// stageStatus represents the display state of a pipeline stage.
type stageStatus int

const (
	stageIdle stageStatus = iota
	stageRunning
	stageDone
	stageFailed
)

// StageStartedMsg is sent when a pipeline stage begins.
type StageStartedMsg struct {
	Stage string
}

// StageCompletedMsg is sent when a pipeline stage finishes.
type StageCompletedMsg struct {
	Stage    string
	Duration time.Duration
}

// RunFinishedMsg is sent when the whole run ends, successfully or not.
// State carries whatever the pipeline produced before the error.
type RunFinishedMsg struct {
	State pipeline.State
	Err   error
}

// ReportSavedMsg is sent after the report file write completes.
type ReportSavedMsg struct {
	Path string
	Err  error
}

// eventMsg wraps a progress event received from the observer channel.
type eventMsg struct {
	event interface{}
}
