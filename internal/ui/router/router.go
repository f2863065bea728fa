package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Factory builds the screen for a route
type Factory func() Screen

// PushMsg pushes a ready screen (e.g. a parameterised form) onto the stack
type PushMsg struct {
	Screen Screen
}

// PopMsg removes the current screen
type PopMsg struct{}

// Router manages navigation between screens using a stack-based approach
type Router struct {
	stack     []Screen
	factories map[ui.Route]Factory
	width     int
	height    int
}

// New creates a new router with the initial screen
func New(initialScreen Screen, factories map[ui.Route]Factory) *Router {
	return &Router{
		stack:     []Screen{initialScreen},
		factories: factories,
	}
}

// Init initializes the router
func (r *Router) Init() tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1].Init()
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.navigate(msg.To)

	case PushMsg:
		return r, r.Push(msg.Screen)

	case PopMsg:
		r.Pop()
		return r, nil

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && len(r.stack) > 1 {
			r.Pop()
			return r, nil
		}
	}

	if len(r.stack) == 0 {
		return r, nil
	}
	current := r.stack[len(r.stack)-1]
	updated, cmd := current.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return r, cmd
}

// Broadcast delivers msg to every screen on the stack, top screen last.
// Фоновые результаты (статус, завершение действий) не должны теряться,
// пока поверх открыта форма или лог.
func (r *Router) Broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.stack))
	for i, screen := range r.stack {
		updated, cmd := screen.Update(msg)
		r.stack[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View renders the current screen
func (r *Router) View() string {
	if len(r.stack) == 0 {
		return "No screen available"
	}
	return r.stack[len(r.stack)-1].View()
}

// SetSize sets the size for every screen on the stack
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	for _, screen := range r.stack {
		screen.SetSize(width, height)
	}
}

func (r *Router) navigate(route ui.Route) tea.Cmd {
	if route == ui.RouteDashboard {
		r.Clear()
		return nil
	}
	factory, ok := r.factories[route]
	if !ok {
		return nil
	}
	return r.Push(factory())
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, screen)
	return screen.Init()
}

// Pop removes the current screen from the stack. Корневой экран не снимается.
func (r *Router) Pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// PopCmd returns a command that pops the current screen
func PopCmd() tea.Cmd {
	return func() tea.Msg { return PopMsg{} }
}

// Current returns the current screen
func (r *Router) Current() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// Clear removes all screens except the first one
func (r *Router) Clear() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:1]
	}
}
