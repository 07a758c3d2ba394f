package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue   = lipgloss.Color("#60a5fa")
	colorGray   = lipgloss.Color("#9ca3af")
	colorBorder = lipgloss.Color("#374151")
	colorRed    = lipgloss.Color("#f87171")
	colorAmber  = lipgloss.Color("#d97706")

	headingStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	statusStyle  = lipgloss.NewStyle().Foreground(colorGray).Faint(true)

	nameStyle         = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	selectedNameStyle = nameStyle.Underline(true)
	descStyle         = lipgloss.NewStyle().Foreground(colorGray)
	metaStyle         = lipgloss.NewStyle().Foreground(colorGray)
	cursorStyle       = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
	retryStyle = lipgloss.NewStyle().Foreground(colorRed).Underline(true)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0, 2)
	disabledButtonStyle = buttonStyle.
				Foreground(colorBorder).
				BorderForeground(colorBorder)
	pageStyle = lipgloss.NewStyle().Foreground(colorGray).Padding(1, 2)
)

func languageDot(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
