// Package themes holds the TUI color themes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Header        lipgloss.Style
	Selected      lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	Critical      lipgloss.Style
	Attention     lipgloss.Style
	Muted         lipgloss.Style
	Border        lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Border: lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		BorderBottom(true),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	Critical: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	Attention: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
}
