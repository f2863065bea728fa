package component

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
)

type staticLogs []logger.LogEntry

func (l staticLogs) GetRecentLogs(int) []logger.LogEntry { return l }

func TestCompactLogViewer_Filter(t *testing.T) {
	now := time.Now()
	viewer := NewCompactLogViewer(staticLogs{
		{Timestamp: now, Level: "info", Message: "Token created"},
		{Timestamp: now, Level: "debug", Message: "Sending transaction"},
		{Timestamp: now, Level: "error", Message: "Operation failed", Fields: map[string]interface{}{"op": "mint"}},
	})
	viewer.SetSize(100, 10)
	viewer.Refresh()

	view := viewer.View()
	assert.Contains(t, view, "Token created")
	assert.Contains(t, view, "Operation failed")
	assert.NotContains(t, view, "Sending transaction")
	assert.NotContains(t, view, "op=mint")

	viewer.ToggleLogLevel("debug")
	viewer.ToggleLogLevel("info")
	viewer.SetShowFields(true)
	viewer.Refresh()
	view = viewer.View()
	assert.Contains(t, view, "Sending transaction")
	assert.NotContains(t, view, "Token created")
	assert.Contains(t, view, "op=mint")
	assert.Equal(t, "error,warn,debug", viewer.FilterStatus())
}

func TestForm_ValidateAndValues(t *testing.T) {
	form := NewForm().
		AddField("destination", FieldTypeText, "Destination", true, "").
		AddField("amount", FieldTypeNumber, "Amount", true, "")
	form.SetFieldValidation("amount", func(s string) error {
		if s == "0" {
			return errors.New("must be positive")
		}
		return nil
	})

	assert.False(t, form.Validate())
	assert.Equal(t, 0, form.Focused())
	assert.Contains(t, form.View(), "Destination is required")

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" abc ")})
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, form.IsLastField())
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})

	assert.False(t, form.Validate())
	assert.Equal(t, 1, form.Focused())
	assert.Contains(t, form.View(), "must be positive")

	form.SetFieldValue("amount", "7")
	assert.True(t, form.Validate())
	assert.Equal(t, "abc", form.GetValue("destination"))
	assert.Equal(t, "7", form.GetValue("amount"))
}

func TestResultPane_States(t *testing.T) {
	pane := NewResultPane("Mint", "m")
	assert.Contains(t, pane.View(), "no result yet")

	pane.SetRunning()
	assert.Equal(t, PaneRunning, pane.State())
	assert.Contains(t, pane.View(), "waiting for confirmation")

	pane.SetError("Request declined in wallet", time.Now())
	assert.Equal(t, PaneFailed, pane.State())
	assert.Contains(t, pane.View(), "Request declined in wallet")
}

func TestHelpBar_WrapsAndDimsBusy(t *testing.T) {
	mint := key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mint"))
	burn := key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "burn"))
	hidden := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled())

	bar := NewHelpBar().SetKeyBindings([]key.Binding{mint, burn, hidden}).SetWidth(12)
	view := bar.View()
	assert.Contains(t, view, "mint")
	assert.Contains(t, view, "burn")
	assert.NotContains(t, view, "hidden")
	assert.GreaterOrEqual(t, strings.Count(view, "\n"), 1)

	bar.SetWidth(80).SetBusy(mint)
	assert.Contains(t, bar.View(), "mint…")
	assert.NotContains(t, bar.View(), "burn…")

	assert.Empty(t, NewHelpBar().View())
}
