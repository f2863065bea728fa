package screen

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/component"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/router"
)

// LogsScreen represents the full log viewing screen
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	viewer  *component.CompactLogViewer
	helpBar *component.HelpBar
}

// NewLogsScreen creates a logs screen over the buffer
func NewLogsScreen(source component.LogSource) *LogsScreen {
	keyMap := ui.DefaultKeyMap()

	viewer := component.NewCompactLogViewer(source)
	viewer.SetTitle("Logs")
	viewer.SetLimit(1000)
	viewer.SetShowFields(true)

	return &LogsScreen{
		keyMap:  keyMap,
		viewer:  viewer,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
	}
}

// Init loads the current buffer content
func (s *LogsScreen) Init() tea.Cmd {
	s.viewer.Refresh()
	return nil
}

// Update handles filter toggles and scrolling
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.FilterInfo):
			s.viewer.ToggleLogLevel("info")
		case key.Matches(msg, s.keyMap.FilterWarn):
			s.viewer.ToggleLogLevel("warning")
		case key.Matches(msg, s.keyMap.FilterError):
			s.viewer.ToggleLogLevel("error")
		case key.Matches(msg, s.keyMap.FilterDebug):
			s.viewer.ToggleLogLevel("debug")
		default:
			return s, s.viewer.Update(msg)
		}

	case ui.LogTickMsg:
		s.viewer.Refresh()
	}
	return s, nil
}

// Viewer returns the underlying log viewer
func (s *LogsScreen) Viewer() *component.CompactLogViewer {
	return s.viewer
}

// SetSize sets the screen size
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewer.SetSize(width, height-3)
	s.helpBar.SetWidth(width)
}

// View renders the screen
func (s *LogsScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, s.viewer.View(), s.helpBar.View())
}

var _ router.Screen = (*LogsScreen)(nil)
