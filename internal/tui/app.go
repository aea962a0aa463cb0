package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mfeller/coverbrief/internal/pipeline"
	"github.com/mfeller/coverbrief/internal/report"
)

// App manages the TUI application lifecycle.
type App struct {
	program *tea.Program
	model   *Model
	eventCh chan tea.Msg
}

// Config contains configuration for the TUI app.
type Config struct {
	ReportWriter *report.Writer
	Backend      string
	ModelName    string
}

// NewApp creates a new TUI application. The runner is attached
// afterwards via SetRunner, with the returned Observer wired in so
// stage progress reaches the display.
func NewApp(cfg Config) *App {
	eventCh := make(chan tea.Msg, 16)
	model := NewModel(nil, cfg.ReportWriter, eventCh, cfg.Backend, cfg.ModelName)

	return &App{
		model:   &model,
		eventCh: eventCh,
	}
}

// SetRunner attaches the pipeline runner. Must be called before Run.
func (a *App) SetRunner(r *pipeline.Runner) {
	a.model.runner = r
}

// Observer returns a pipeline observer that feeds stage progress into
// the TUI. Events are dropped rather than blocking the pipeline when
// the display falls behind.
func (a *App) Observer() pipeline.Observer {
	return &channelObserver{ch: a.eventCh}
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// channelObserver adapts the observer callbacks onto the event channel.
type channelObserver struct {
	ch chan<- tea.Msg
}

func (o *channelObserver) StageStarted(stage string) {
	o.send(StageStartedMsg{Stage: stage})
}

func (o *channelObserver) StageCompleted(stage string, duration time.Duration) {
	o.send(StageCompletedMsg{Stage: stage, Duration: duration})
}

func (o *channelObserver) send(msg tea.Msg) {
	select {
	case o.ch <- msg:
	default:
	}
}
