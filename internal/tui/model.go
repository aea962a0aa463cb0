package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/mfeller/coverbrief/internal/pipeline"
	"github.com/mfeller/coverbrief/internal/report"
)

// stageLine is one row in the progress display.
type stageLine struct {
	Name     string
	Status   stageStatus
	Duration time.Duration
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Dimensions
	width  int
	height int

	// UI components
	textArea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	mdRenderer *glamour.TermRenderer

	// Pipeline wiring
	runner       *pipeline.Runner
	reportWriter *report.Writer
	eventCh      <-chan tea.Msg

	// Run state
	query      string
	stages     []stageLine
	research   string
	reportText string
	savedPath  string
	lastError  error

	// History of previous runs, already rendered.
	history *strings.Builder

	// Session info
	modelName string
	backend   string

	// State
	ready      bool
	quitting   bool
	processing bool
}

// NewModel creates a new TUI model. eventCh carries stage progress
// messages from the runner's observer.
func NewModel(runner *pipeline.Runner, reportWriter *report.Writer, eventCh <-chan tea.Msg, backend, modelName string) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about an insurance product..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(2)
	ta.MaxHeight = 6
	ta.ShowLineNumbers = false
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "  "
	})
	ta.FocusedStyle.Prompt = inputPromptStyle
	ta.BlurredStyle.Prompt = inputPromptStyle
	ta.KeyMap.InsertNewline.SetKeys("shift+enter")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = stageRunningStyle

	vp := viewport.New(80, 20)
	vp.SetContent("")
	vp.MouseWheelEnabled = true

	mdRenderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)

	return Model{
		textArea:     ta,
		viewport:     vp,
		spinner:      s,
		mdRenderer:   mdRenderer,
		runner:       runner,
		reportWriter: reportWriter,
		eventCh:      eventCh,
		backend:      backend,
		modelName:    modelName,
		history:      &strings.Builder{},
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// waitForEvent returns a command that waits for a progress event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventCh == nil {
			return nil
		}
		event, ok := <-m.eventCh
		if !ok {
			return nil
		}
		return eventMsg{event: event}
	}
}

// startRun launches the pipeline in the background and reports the
// outcome as a RunFinishedMsg.
func (m *Model) startRun(query string) tea.Cmd {
	runner := m.runner
	return func() tea.Msg {
		state, err := runner.Run(context.Background(), query)
		return RunFinishedMsg{State: state, Err: err}
	}
}

// saveReport writes the report file in the background.
func (m *Model) saveReport(text string) tea.Cmd {
	w := m.reportWriter
	return func() tea.Msg {
		return ReportSavedMsg{Path: w.Path(), Err: w.Save(text)}
	}
}

// beginRun resets the per-run state, archiving the previous run first.
func (m *Model) beginRun(query string) {
	m.archiveRun()

	m.query = query
	m.stages = []stageLine{
		{Name: "research"},
		{Name: "writer"},
	}
	m.research = ""
	m.reportText = ""
	m.savedPath = ""
	m.lastError = nil
	m.processing = true
}

// archiveRun renders the finished run into the scrollback history.
func (m *Model) archiveRun() {
	if m.query == "" {
		return
	}

	if m.history.Len() > 0 {
		m.history.WriteString("\n")
		m.history.WriteString(strings.Repeat("═", 80))
		m.history.WriteString("\n\n")
	}
	m.history.WriteString(m.renderRun(false))
}

// stageIndex finds a stage line by name, -1 when unknown.
func (m *Model) stageIndex(name string) int {
	for i := range m.stages {
		if m.stages[i].Name == name {
			return i
		}
	}
	return -1
}

// updateViewport refreshes the scrollable content area.
func (m *Model) updateViewport() {
	var content strings.Builder

	if m.history.Len() > 0 {
		content.WriteString(m.history.String())
	}
	content.WriteString(m.renderRun(true))

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// renderMarkdown renders markdown content with styling.
func (m *Model) renderMarkdown(content string) string {
	if m.mdRenderer == nil {
		return content
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
