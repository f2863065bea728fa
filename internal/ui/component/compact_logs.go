package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

// LogSource отдаёт последние записи лога (реализуется logger.LogBuffer).
type LogSource interface {
	GetRecentLogs(limit int) []logger.LogEntry
}

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// CompactLogViewer renders recent entries of the log buffer
type CompactLogViewer struct {
	source   LogSource
	viewport viewport.Model
	filter   LogFilter
	style    style.LogStyles
	limit    int
	width    int
	height   int
	title    string
	fields   bool
	follow   bool
}

// NewCompactLogViewer creates a new compact log viewer
func NewCompactLogViewer(source LogSource) *CompactLogViewer {
	return &CompactLogViewer{
		source: source,
		title:  "Recent Logs",
		limit:  50,
		follow: true,
		filter: LogFilter{
			ShowError:   true,
			ShowWarning: true,
			ShowInfo:    true,
		},
		style:    style.NewLogStyles(style.DefaultPalette()),
		viewport: viewport.New(50, 4),
	}
}

// SetTitle sets the pane title
func (clv *CompactLogViewer) SetTitle(title string) {
	clv.title = title
}

// SetLimit sets how many buffered entries are read per refresh
func (clv *CompactLogViewer) SetLimit(limit int) {
	clv.limit = limit
}

// SetShowFields включает вывод структурных полей записи.
func (clv *CompactLogViewer) SetShowFields(show bool) {
	clv.fields = show
}

// SetSize sets the component dimensions
func (clv *CompactLogViewer) SetSize(width, height int) {
	clv.width = width
	clv.height = height

	// Border + padding + title
	viewportHeight := height - 3
	if viewportHeight < 2 {
		viewportHeight = 2
	}
	clv.viewport.Width = width - 4
	clv.viewport.Height = viewportHeight
}

// Filter returns the active filter
func (clv *CompactLogViewer) Filter() LogFilter {
	return clv.filter
}

// ToggleLogLevel toggles a specific log level
func (clv *CompactLogViewer) ToggleLogLevel(level string) {
	switch level {
	case "error":
		clv.filter.ShowError = !clv.filter.ShowError
	case "warning":
		clv.filter.ShowWarning = !clv.filter.ShowWarning
	case "info":
		clv.filter.ShowInfo = !clv.filter.ShowInfo
	case "debug":
		clv.filter.ShowDebug = !clv.filter.ShowDebug
	}
	clv.Refresh()
}

// Update handles viewport scrolling
func (clv *CompactLogViewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	clv.viewport, cmd = clv.viewport.Update(msg)
	clv.follow = clv.viewport.AtBottom()
	return cmd
}

// Refresh reloads content from the log source
func (clv *CompactLogViewer) Refresh() {
	if clv.source == nil {
		clv.viewport.SetContent("No log buffer available")
		return
	}

	var lines []string
	for _, entry := range clv.source.GetRecentLogs(clv.limit) {
		if clv.shouldShowEntry(entry) {
			lines = append(lines, clv.formatLogEntry(entry))
		}
	}

	if len(lines) == 0 {
		clv.viewport.SetContent("No logs match current filter")
		return
	}

	clv.viewport.SetContent(strings.Join(lines, "\n"))
	if clv.follow {
		clv.viewport.GotoBottom()
	}
}

// View renders the compact log viewer
func (clv *CompactLogViewer) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		clv.style.Title.Render(fmt.Sprintf("%s (%s)", clv.title, clv.FilterStatus())),
		clv.viewport.View(),
	)
	container := clv.style.Container
	if clv.width > 2 {
		container = container.Width(clv.width - 2)
	}
	return container.Render(content)
}

// shouldShowEntry determines if a log entry should be displayed based on filter
func (clv *CompactLogViewer) shouldShowEntry(entry logger.LogEntry) bool {
	switch strings.ToLower(entry.Level) {
	case "error", "dpanic", "panic", "fatal":
		return clv.filter.ShowError
	case "warning", "warn":
		return clv.filter.ShowWarning
	case "debug":
		return clv.filter.ShowDebug
	default:
		return clv.filter.ShowInfo
	}
}

// formatLogEntry formats a log entry for display
func (clv *CompactLogViewer) formatLogEntry(entry logger.LogEntry) string {
	timestamp := clv.style.Timestamp.Render(entry.Timestamp.Format("15:04:05"))

	message := entry.Message
	if clv.fields && len(entry.Fields) > 0 {
		message += " " + formatFields(entry.Fields)
	}

	var styled string
	switch strings.ToLower(entry.Level) {
	case "error", "dpanic", "panic", "fatal":
		styled = clv.style.Error.Render(message)
	case "warning", "warn":
		styled = clv.style.Warning.Render(message)
	case "info":
		styled = clv.style.Info.Render(message)
	case "debug":
		styled = clv.style.Debug.Render(message)
	default:
		styled = clv.style.Entry.Render(message)
	}

	return fmt.Sprintf("%s %s", timestamp, styled)
}

func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

// FilterStatus returns current filter status as string
func (clv *CompactLogViewer) FilterStatus() string {
	var active []string
	if clv.filter.ShowError {
		active = append(active, "error")
	}
	if clv.filter.ShowWarning {
		active = append(active, "warn")
	}
	if clv.filter.ShowInfo {
		active = append(active, "info")
	}
	if clv.filter.ShowDebug {
		active = append(active, "debug")
	}

	if len(active) == 0 {
		return "all hidden"
	}
	return strings.Join(active, ",")
}
