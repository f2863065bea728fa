package screen

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/component"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/router"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

const logPaneHeight = 9

// DashboardScreen - главный экран: заголовок со статусом, панели результатов
// по одной на действие, короткий лог и подсказка клавиш.
type DashboardScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	runner          *ui.ActionRunner
	defaultDecimals uint8

	// UI components
	header  *component.StatusHeader
	panes   map[ui.Action]*component.ResultPane
	logs    *component.CompactLogViewer
	helpBar *component.HelpBar

	// State
	running map[ui.Action]int
	last    ui.Action
}

// NewDashboardScreen creates the dashboard screen
func NewDashboardScreen(runner *ui.ActionRunner, logs component.LogSource, network string, defaultDecimals uint8) *DashboardScreen {
	keyMap := ui.DefaultKeyMap()

	panes := make(map[ui.Action]*component.ResultPane, len(ui.Actions))
	for _, action := range ui.Actions {
		panes[action] = component.NewResultPane(action.String(), keyMap.Binding(action).Help().Key)
	}

	viewer := component.NewCompactLogViewer(logs)
	viewer.SetLimit(100)

	return &DashboardScreen{
		keyMap:          keyMap,
		runner:          runner,
		defaultDecimals: defaultDecimals,
		header:          component.NewStatusHeader(network),
		panes:           panes,
		logs:            viewer,
		helpBar:         component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteDashboard)),
		running:         make(map[ui.Action]int),
		last:            -1,
	}
}

// Init requests the initial status
func (d *DashboardScreen) Init() tea.Cmd {
	d.logs.Refresh()
	return d.runner.Status()
}

// Update handles screen updates
func (d *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d, d.handleKey(msg)

	case ui.SubmitMsg:
		return d, d.start(msg.Action, msg.Input)

	case ui.ActionResultMsg:
		d.finish(msg)
		d.logs.Refresh()
		return d, d.runner.Status()

	case ui.StatusMsg:
		d.header.SetStatus(msg.Status, msg.Err)

	case ui.LogTickMsg:
		d.logs.Refresh()
	}
	return d, nil
}

func (d *DashboardScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, d.keyMap.Quit):
		return tea.Quit

	case key.Matches(msg, d.keyMap.Refresh):
		return d.runner.Status()

	case key.Matches(msg, d.keyMap.Logs):
		return func() tea.Msg { return ui.RouterMsg{To: ui.RouteLogs} }

	case key.Matches(msg, d.keyMap.Up), key.Matches(msg, d.keyMap.Down):
		return d.logs.Update(msg)
	}

	action, ok := d.keyMap.ActionFor(msg)
	if !ok {
		return nil
	}
	if action.NeedsInput() {
		form := NewInputScreen(action, d.defaultDecimals)
		return func() tea.Msg { return router.PushMsg{Screen: form} }
	}
	return d.start(action, ui.Input{})
}

// start помечает панель и запускает действие. Повторный запуск во время
// выполнения ставится в очередь мьютексом сессии.
func (d *DashboardScreen) start(action ui.Action, in ui.Input) tea.Cmd {
	d.running[action]++
	d.panes[action].SetRunning()
	d.activate(action)
	return d.runner.Run(action, in)
}

func (d *DashboardScreen) finish(msg ui.ActionResultMsg) {
	if d.running[msg.Action] > 0 {
		d.running[msg.Action]--
	}
	pane := d.panes[msg.Action]
	if msg.Err != nil {
		pane.SetError(workflow.Describe(msg.Err), msg.Finished)
	} else {
		pane.SetResult(msg.Result.String(), msg.Finished)
	}
	if d.running[msg.Action] > 0 {
		pane.SetRunning()
	}
	d.activate(msg.Action)
}

func (d *DashboardScreen) activate(action ui.Action) {
	d.last = action
	for a, pane := range d.panes {
		pane.SetActive(a == action)
	}
}

// Running returns how many runs of the action are in flight
func (d *DashboardScreen) Running(action ui.Action) int {
	return d.running[action]
}

// Pane returns the result pane of an action
func (d *DashboardScreen) Pane(action ui.Action) *component.ResultPane {
	return d.panes[action]
}

// SetSize sets the screen size
func (d *DashboardScreen) SetSize(width, height int) {
	d.width = width
	d.height = height

	d.header.SetWidth(width)
	paneWidth := style.AdaptiveWidth(width, 50)
	for _, pane := range d.panes {
		pane.SetWidth(paneWidth)
	}
	d.logs.SetSize(width, logPaneHeight)
	d.helpBar.SetWidth(width)
}

// View renders the dashboard
func (d *DashboardScreen) View() string {
	left := d.column(ui.ActionConnect, ui.ActionCreateToken, ui.ActionCreateAccount, ui.ActionTokenInfo)
	right := d.column(ui.ActionMint, ui.ActionTransfer, ui.ActionBurn)

	var busy []key.Binding
	for _, action := range ui.Actions {
		if d.running[action] > 0 {
			busy = append(busy, d.keyMap.Binding(action))
		}
	}
	d.helpBar.SetBusy(busy...)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		d.header.View(),
		style.AdaptiveJoinHorizontal(d.width, left, right),
		d.logs.View(),
		d.helpBar.View(),
	)
}

func (d *DashboardScreen) column(actions ...ui.Action) string {
	views := make([]string, 0, len(actions))
	for _, action := range actions {
		views = append(views, d.panes[action].View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

var _ router.Screen = (*DashboardScreen)(nil)
