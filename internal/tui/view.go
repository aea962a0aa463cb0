package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// durationPrecision is the rounding applied to displayed stage times.
const durationPrecision = 10 * time.Millisecond

// View renders the entire TUI.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing...\n"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.lastError != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.lastError)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderSeparator())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the title and backend info.
func (m *Model) renderHeader() string {
	title := titleStyle.Render("COVERBRIEF")
	info := modelInfoStyle.Render(fmt.Sprintf("%s / %s", m.backend, m.modelName))

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(info) - 2
	if spacing < 1 {
		spacing = 1
	}
	return title + strings.Repeat(" ", spacing) + info
}

// renderSeparator renders a horizontal separator line.
func (m *Model) renderSeparator() string {
	width := m.width - 2
	if width < 1 {
		width = 1
	}
	return separatorStyle.Render(strings.Repeat("─", width))
}

// renderInput renders the input area.
func (m *Model) renderInput() string {
	if m.processing {
		return processingStyle.Render("Generating report... (press Ctrl+C to quit)")
	}
	return m.textArea.View()
}

// renderHelp renders the help bar at the bottom.
func (m *Model) renderHelp() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"enter", "submit"},
		{"shift+enter", "newline"},
		{"pgup/pgdn", "scroll"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", helpKeyStyle.Render(k.key), k.desc))
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// renderRun renders the current run for the viewport. When animated is
// true, running stages show the spinner frame.
func (m *Model) renderRun(animated bool) string {
	if m.query == "" {
		return ""
	}

	var b strings.Builder

	b.WriteString(queryLabelStyle.Render("You: "))
	b.WriteString(queryStyle.Render(m.query))
	b.WriteString("\n\n")

	for _, st := range m.stages {
		b.WriteString("  ")
		b.WriteString(m.renderStageLine(st, animated))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.research != "" {
		b.WriteString(sectionTitleStyle.Render("Research data"))
		b.WriteString("\n")
		b.WriteString(m.research)
		b.WriteString("\n\n")
	}

	if m.reportText != "" {
		b.WriteString(sectionTitleStyle.Render("Report"))
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(m.reportText))
		if m.savedPath != "" {
			b.WriteString(savedNoteStyle.Render(fmt.Sprintf("Saved to %s", m.savedPath)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderStageLine renders one stage progress row.
func (m *Model) renderStageLine(st stageLine, animated bool) string {
	switch st.Status {
	case stageDone:
		return fmt.Sprintf("%s %s (%s)",
			stageDoneStyle.Render("✓"), st.Name, st.Duration.Round(durationPrecision))
	case stageFailed:
		return fmt.Sprintf("%s %s", stageFailedStyle.Render("✗"), st.Name)
	case stageRunning:
		icon := stageRunningStyle.Render("●")
		if animated {
			icon = m.spinner.View()
		}
		return fmt.Sprintf("%s %s", icon, st.Name)
	default:
		return fmt.Sprintf("%s %s", separatorStyle.Render("○"), st.Name)
	}
}
