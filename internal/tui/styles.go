package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// Project names in listings
	ProjectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	// GUIDs and paths
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	// Tree connectors
	TreeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB000")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)
)

// RenderError formats an error for stderr.
func RenderError(err error) string {
	return ErrorStyle.Render("error:") + " " + err.Error()
}

// RenderSuccess formats a success line.
func RenderSuccess(msg string) string {
	return SuccessStyle.Render("✓") + " " + msg
}

// RenderWarning formats a warning line.
func RenderWarning(msg string) string {
	return WarningStyle.Render("!") + " " + msg
}
