package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles for dashboard components

// HeaderStyles provides styling for the status header
type HeaderStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Balance   lipgloss.Style
	Token     lipgloss.Style
	Offline   lipgloss.Style
}

// NewHeaderStyles creates header styles with the given palette
func NewHeaderStyles(palette Palette) HeaderStyles {
	return HeaderStyles{
		Container: lipgloss.NewStyle().
			Foreground(palette.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Value: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),

		Balance: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true),

		Token: lipgloss.NewStyle().
			Foreground(palette.Token).
			Bold(true),

		Offline: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),
	}
}

// PaneStyles provides styling for action result panes
type PaneStyles struct {
	Container lipgloss.Style
	Active    lipgloss.Style
	Title     lipgloss.Style
	Body      lipgloss.Style
	Error     lipgloss.Style
	Pending   lipgloss.Style
	Muted     lipgloss.Style
}

// NewPaneStyles creates result pane styles
func NewPaneStyles(palette Palette) PaneStyles {
	return PaneStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1),

		Active: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(palette.Text),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error),

		Pending: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
	}
}

// LogStyles provides styling for the compact log viewer
type LogStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Entry     lipgloss.Style
	Timestamp lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Debug     lipgloss.Style
}

// NewLogStyles creates compact log viewer styles
func NewLogStyles(palette Palette) LogStyles {
	return LogStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Info).
			Bold(true),

		Entry: lipgloss.NewStyle().
			Foreground(palette.Text),

		Timestamp: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(palette.Info),

		Debug: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// PromptStyles provides styling for the approval prompt
type PromptStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Body      lipgloss.Style
}

// NewPromptStyles creates approval prompt styles
func NewPromptStyles(palette Palette) PromptStyles {
	return PromptStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(palette.Secondary).
			Padding(1, 3),

		Title: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(palette.Text),
	}
}
