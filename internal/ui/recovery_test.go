package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockModel is a test UI model
type mockModel struct {
	panicOnUpdate bool
	panicOnView   bool
	updates       int
}

func (m *mockModel) Init() tea.Cmd { return nil }

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updates++
	if m.panicOnUpdate {
		panic("update panic test")
	}
	return m, tea.Quit
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func TestSafeUIWrapper_Normal(t *testing.T) {
	inner := &mockModel{}
	wrapper := NewSafeUIWrapper(inner, zaptest.NewLogger(t))

	model, cmd := wrapper.Update(nil)
	assert.Same(t, wrapper, model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, inner.updates)
	assert.Equal(t, "Test UI", wrapper.View())
	assert.Zero(t, wrapper.Panics())
}

func TestSafeUIWrapper_RecoversUpdatePanic(t *testing.T) {
	wrapper := NewSafeUIWrapper(&mockModel{panicOnUpdate: true}, zaptest.NewLogger(t))

	var (
		model tea.Model
		cmd   tea.Cmd
	)
	assert.NotPanics(t, func() { model, cmd = wrapper.Update(nil) })
	assert.Same(t, wrapper, model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, wrapper.Panics())
	assert.Contains(t, wrapper.View(), "last: Update: update panic test")
}

func TestSafeUIWrapper_RecoversViewPanic(t *testing.T) {
	wrapper := NewSafeUIWrapper(&mockModel{panicOnView: true}, zaptest.NewLogger(t))

	view := wrapper.View()
	assert.Contains(t, view, "View crashed")
	assert.Contains(t, view, "View: view panic test")
	assert.Equal(t, 1, wrapper.Panics())
}
