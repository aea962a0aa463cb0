package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary = lipgloss.Color("#00D4FF") // Cyan
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorError   = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorText    = lipgloss.Color("#E5E7EB") // Light gray
	colorDim     = lipgloss.Color("#4B5563") // Darker gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	modelInfoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	separatorStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	queryLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	queryStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E3A5F")).
			Foreground(colorText).
			Padding(0, 1)

	stageDoneStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	stageFailedStyle = lipgloss.NewStyle().
				Foreground(colorError)

	stageRunningStyle = lipgloss.NewStyle().
				Foreground(colorPrimary)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	savedNoteStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	processingStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
