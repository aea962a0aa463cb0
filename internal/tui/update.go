package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Update handles all incoming messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.textArea.SetWidth(msg.Width - 4)

		if m.mdRenderer == nil || m.width != msg.Width {
			m.mdRenderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}

		// Reserve rows for the header, two separators, input and help bar.
		viewportHeight := msg.Height - 9
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = viewportHeight

		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.processing {
			m.updateViewport()
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case eventMsg:
		return m.handleEvent(msg)

	case RunFinishedMsg:
		return m.handleRunFinished(msg)

	case ReportSavedMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		} else {
			m.savedPath = msg.Path
		}
		m.updateViewport()
		return m, nil
	}

	if !m.processing {
		var cmd tea.Cmd
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if m.processing {
			// Submission is disabled while a run is in flight.
			return m, nil
		}
		query := strings.TrimSpace(m.textArea.Value())
		if query == "" {
			return m, nil
		}
		m.textArea.Reset()
		m.beginRun(query)
		m.updateViewport()

		return m, tea.Batch(
			m.startRun(query),
			m.waitForEvent(),
			m.spinner.Tick,
		)
	}

	if !m.processing {
		var cmd tea.Cmd
		m.textArea, cmd = m.textArea.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleEvent processes a progress event and re-arms the listener.
func (m *Model) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	switch ev := msg.event.(type) {
	case StageStartedMsg:
		if idx := m.stageIndex(ev.Stage); idx >= 0 {
			m.stages[idx].Status = stageRunning
		}
	case StageCompletedMsg:
		if idx := m.stageIndex(ev.Stage); idx >= 0 {
			m.stages[idx].Status = stageDone
			m.stages[idx].Duration = ev.Duration
		}
	}
	m.updateViewport()
	return m, m.waitForEvent()
}

// handleRunFinished records the outcome and kicks off the report save.
func (m *Model) handleRunFinished(msg RunFinishedMsg) (tea.Model, tea.Cmd) {
	m.processing = false

	if msg.State != nil {
		if rd, ok := msg.State.ResearchData(); ok {
			m.research = rd.Text()
		}
		m.reportText = msg.State.FinalReport()
	}

	if msg.Err != nil {
		m.lastError = msg.Err
		for i := range m.stages {
			if m.stages[i].Status == stageRunning {
				m.stages[i].Status = stageFailed
			}
		}
		m.updateViewport()
		return m, nil
	}

	m.updateViewport()
	return m, m.saveReport(m.reportText)
}
