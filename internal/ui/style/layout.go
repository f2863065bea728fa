package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(0, 0, 1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true)
)

// Form styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Background(palette.BackgroundAlt).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(palette.Text).
				Background(palette.BackgroundAlt).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary)

	HintStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true)
)

// Menu styles
var (
	KeyStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(palette.Text)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(palette.Success)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(palette.Error)

	StatusPendingStyle = lipgloss.NewStyle().
				Foreground(palette.Warning)
)

// Adaptive layout helpers
func AdaptiveJoinHorizontal(width int, styles ...string) string {
	if width < 100 {
		// Stack vertically on narrow screens
		return lipgloss.JoinVertical(lipgloss.Left, styles...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, styles...)
}

func AdaptiveWidth(width, percentage int) int {
	if width < 100 {
		return width - 4
	}
	return (width * percentage) / 100
}
