package style

import "github.com/charmbracelet/lipgloss"

// Palette - цвета интерфейса. Статусы панелей: Success, Error, Warning;
// Token выделяет адрес mint и суммы токена.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color
	Token     lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color
}

// DefaultPalette returns the dark terminal palette
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#00E5FF"),
		Secondary: lipgloss.Color("#FF1B6B"),
		Success:   lipgloss.Color("#2AFFAA"),
		Error:     lipgloss.Color("#FF5555"),
		Warning:   lipgloss.Color("#FFB500"),
		Info:      lipgloss.Color("#3B82F6"),
		Token:     lipgloss.Color("#8B5CF6"),

		Background:    lipgloss.Color("#1B1D23"),
		BackgroundAlt: lipgloss.Color("#262831"),
		Text:          lipgloss.Color("#ECEFF4"),
		TextMuted:     lipgloss.Color("#6C7280"),
		TextSecondary: lipgloss.Color("#B4BCC8"),
	}
}
