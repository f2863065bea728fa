package screen

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/component"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/router"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

const logTickInterval = time.Second

// App - корневая модель: роутер экранов, шина событий и запрос подтверждения.
// Пока запрос открыт, клавиши обрабатывает только он.
type App struct {
	router  *router.Router
	keyMap  ui.KeyMap
	bus     <-chan tea.Msg
	pending *ui.ApprovalRequestMsg

	width   int
	height  int
	prompt  style.PromptStyles
	helpBar *component.HelpBar
}

// Config collects the dependencies of the dashboard
type Config struct {
	Runner          *ui.ActionRunner
	Logs            component.LogSource
	Network         string
	DefaultDecimals uint8
	// Bus - источник запросов подтверждения; по умолчанию ui.Bus.
	Bus <-chan tea.Msg
}

// NewApp builds the dashboard application
func NewApp(cfg Config) *App {
	keyMap := ui.DefaultKeyMap()
	bus := cfg.Bus
	if bus == nil {
		bus = ui.Bus
	}

	dashboard := NewDashboardScreen(cfg.Runner, cfg.Logs, cfg.Network, cfg.DefaultDecimals)
	routes := map[ui.Route]router.Factory{
		ui.RouteLogs: func() router.Screen { return NewLogsScreen(cfg.Logs) },
	}

	return &App{
		router:  router.New(dashboard, routes),
		keyMap:  keyMap,
		bus:     bus,
		prompt:  style.NewPromptStyles(style.DefaultPalette()),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ApprovalHelp()),
	}
}

// Init starts the root screen, the bus listener and the log ticker
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.router.Init(), a.listen(), ui.LogTick(logTickInterval))
}

func (a *App) listen() tea.Cmd {
	bus := a.bus
	return func() tea.Msg { return <-bus }
}

// Update handles screen updates
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ApprovalRequestMsg:
		if a.pending != nil {
			a.pending.Answer(false)
		}
		a.pending = &msg
		return a, a.listen()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.decline()
			return a, tea.Quit
		}
		if a.pending != nil {
			switch {
			case key.Matches(msg, a.keyMap.Approve):
				a.pending.Answer(true)
				a.pending = nil
			case key.Matches(msg, a.keyMap.Decline):
				a.decline()
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.helpBar.SetWidth(msg.Width)

	case ui.LogTickMsg:
		return a, tea.Batch(a.router.Broadcast(msg), ui.LogTick(logTickInterval))

	case ui.ActionResultMsg, ui.StatusMsg:
		return a, a.router.Broadcast(msg)
	}

	_, cmd := a.router.Update(msg)
	return a, cmd
}

func (a *App) decline() {
	if a.pending != nil {
		a.pending.Answer(false)
		a.pending = nil
	}
}

// Pending returns the open approval request, if any
func (a *App) Pending() *ui.ApprovalRequestMsg {
	return a.pending
}

// Router returns the screen router
func (a *App) Router() *router.Router {
	return a.router
}

// View renders the current screen and the approval prompt on top
func (a *App) View() string {
	view := a.router.View()
	if a.pending == nil {
		return view
	}

	prompt := a.prompt.Container.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		a.prompt.Title.Render("Wallet approval"),
		a.prompt.Body.Render(a.pending.Request.Summary()),
		a.helpBar.View(),
	))
	if a.width == 0 || a.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, view, prompt)
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, prompt)
}
