package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

const helpSeparator = " • "

// HelpBar - строка подсказок по клавишам. Не помещающиеся элементы
// переносятся на следующую строку. Клавиши запущенных действий приглушаются.
type HelpBar struct {
	bindings []key.Binding
	busy     map[string]bool
	width    int
	compact  bool

	key, desc, sep, muted lipgloss.Style
	container             lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar() *HelpBar {
	p := style.DefaultPalette()
	return &HelpBar{
		width:     80,
		key:       lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		desc:      lipgloss.NewStyle().Foreground(p.TextMuted),
		sep:       lipgloss.NewStyle().Foreground(p.TextMuted),
		muted:     lipgloss.NewStyle().Foreground(p.TextMuted).Faint(true),
		container: lipgloss.NewStyle().Padding(0, 1).Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings sets the key bindings to display
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.bindings = bindings
	return h
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	return h
}

// SetCompact оставляет только клавиши без описаний.
func (h *HelpBar) SetCompact(compact bool) *HelpBar {
	h.compact = compact
	return h
}

// SetBusy помечает привязки как выполняющиеся.
func (h *HelpBar) SetBusy(bindings ...key.Binding) *HelpBar {
	h.busy = make(map[string]bool, len(bindings))
	for _, b := range bindings {
		h.busy[b.Help().Key] = true
	}
	return h
}

// View renders the help bar
func (h *HelpBar) View() string {
	var (
		lines []string
		line  []string
		used  int
	)
	limit := h.width - 4
	sepWidth := lipgloss.Width(helpSeparator)

	for _, b := range h.bindings {
		item, ok := h.render(b)
		if !ok {
			continue
		}
		w := lipgloss.Width(item) + sepWidth
		if len(line) > 0 && used+w > limit {
			lines = append(lines, strings.Join(line, h.sep.Render(helpSeparator)))
			line, used = nil, 0
		}
		line = append(line, item)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, h.sep.Render(helpSeparator)))
	}
	if len(lines) == 0 {
		return ""
	}
	return h.container.Render(strings.Join(lines, "\n"))
}

func (h *HelpBar) render(b key.Binding) (string, bool) {
	help := b.Help()
	if !b.Enabled() || help.Key == "" {
		return "", false
	}
	if h.busy[help.Key] {
		return h.muted.Render(help.Key + " " + help.Desc + "…"), true
	}
	item := h.key.Render(help.Key)
	if !h.compact && help.Desc != "" {
		item += " " + h.desc.Render(help.Desc)
	}
	return item, true
}
