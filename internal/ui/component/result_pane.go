package component

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

// PaneState - состояние панели результата действия.
type PaneState int

const (
	PaneIdle PaneState = iota
	PaneRunning
	PaneSuccess
	PaneFailed
)

// ResultPane отображает последний результат одного действия.
type ResultPane struct {
	title    string
	hotkey   string
	state    PaneState
	body     string
	finished time.Time
	active   bool
	width    int
	style    style.PaneStyles
}

// NewResultPane creates a pane for an action
func NewResultPane(title, hotkey string) *ResultPane {
	return &ResultPane{
		title:  title,
		hotkey: hotkey,
		width:  48,
		style:  style.NewPaneStyles(style.DefaultPalette()),
	}
}

// SetRunning marks the action as in progress
func (p *ResultPane) SetRunning() {
	p.state = PaneRunning
}

// SetResult records a successful result
func (p *ResultPane) SetResult(body string, finished time.Time) {
	p.state = PaneSuccess
	p.body = body
	p.finished = finished
}

// SetError records a failure message
func (p *ResultPane) SetError(message string, finished time.Time) {
	p.state = PaneFailed
	p.body = message
	p.finished = finished
}

// SetActive highlights the most recently used pane
func (p *ResultPane) SetActive(active bool) {
	p.active = active
}

// SetWidth sets the pane width
func (p *ResultPane) SetWidth(width int) {
	p.width = width
}

// State returns the pane state
func (p *ResultPane) State() PaneState {
	return p.state
}

// Body returns the rendered text without styling
func (p *ResultPane) Body() string {
	return p.body
}

// View renders the pane
func (p *ResultPane) View() string {
	header := p.style.Title.Render(p.title) + " " + p.style.Muted.Render("["+p.hotkey+"]")
	if !p.finished.IsZero() && p.state != PaneRunning {
		header += " " + p.style.Muted.Render(p.finished.Format("15:04:05"))
	}

	var body string
	switch p.state {
	case PaneIdle:
		body = p.style.Muted.Render("no result yet")
	case PaneRunning:
		body = p.style.Pending.Render("running, waiting for confirmation...")
		if p.body != "" {
			body += "\n" + p.style.Muted.Render(p.body)
		}
	case PaneSuccess:
		body = p.style.Body.Render(p.body)
	case PaneFailed:
		body = p.style.Error.Render(p.body)
	}

	container := p.style.Container
	if p.active {
		container = p.style.Active
	}
	if p.width > 2 {
		container = container.Width(p.width - 2)
	}
	return container.Render(lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(body, "\n")))
}
