package ui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

var crashBanner = lipgloss.NewStyle().Foreground(style.DefaultPalette().Error).Bold(true)

// SafeUIWrapper перехватывает панику в Init/Update/View модели. После
// перехвата UI продолжает работать, а под экраном показывается последняя ошибка.
type SafeUIWrapper struct {
	model   tea.Model
	logger  *zap.Logger
	panics  int
	lastErr string
}

// NewSafeUIWrapper оборачивает model.
func NewSafeUIWrapper(model tea.Model, logger *zap.Logger) *SafeUIWrapper {
	return &SafeUIWrapper{
		model:  model,
		logger: logger.Named("ui"),
	}
}

func (sw *SafeUIWrapper) Init() (cmd tea.Cmd) {
	defer sw.recovered("Init", func() { cmd = nil })
	return sw.model.Init()
}

func (sw *SafeUIWrapper) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = sw
	defer sw.recovered("Update", func() { cmd = nil })
	next, cmd := sw.model.Update(msg)
	sw.model = next
	return sw, cmd
}

func (sw *SafeUIWrapper) View() (view string) {
	defer sw.recovered("View", func() {
		view = "UI Error: View crashed. Press Ctrl+C to exit.\n" + crashBanner.Render(sw.lastErr)
	})
	view = sw.model.View()
	if sw.lastErr != "" {
		view += "\n" + crashBanner.Render(fmt.Sprintf("recovered %d UI error(s), last: %s", sw.panics, sw.lastErr))
	}
	return view
}

// Model returns the wrapped model
func (sw *SafeUIWrapper) Model() tea.Model {
	return sw.model
}

// Panics возвращает число перехваченных паник.
func (sw *SafeUIWrapper) Panics() int {
	return sw.panics
}

func (sw *SafeUIWrapper) recovered(method string, reset func()) {
	r := recover()
	if r == nil {
		return
	}
	sw.panics++
	sw.lastErr = fmt.Sprintf("%s: %v", method, r)
	sw.logger.Error("UI panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))
	reset()
}
