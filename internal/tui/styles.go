package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	taskTitleStyle = lipgloss.NewStyle().
			Bold(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#D1D5DB"))

	controlStyle = lipgloss.NewStyle().
			Foreground(cyanColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	confirmStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	focusedFieldStyle = lipgloss.NewStyle().
				Foreground(cyanColor).
				Bold(true)
)

// statusStyle colors the known statuses; anything else renders plain.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Pending":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "In Progress":
		return lipgloss.NewStyle().Foreground(primaryColor)
	case "Done":
		return lipgloss.NewStyle().Foreground(successColor)
	default:
		return lipgloss.NewStyle()
	}
}
