package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding
	Help key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Submit   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Token actions
	Connect       key.Binding
	CreateToken   key.Binding
	CreateAccount key.Binding
	Mint          key.Binding
	Transfer      key.Binding
	Burn          key.Binding
	TokenInfo     key.Binding
	Refresh       key.Binding

	// Approval prompt
	Approve key.Binding
	Decline key.Binding

	// Logs
	Logs        key.Binding
	FilterInfo  key.Binding
	FilterWarn  key.Binding
	FilterError key.Binding
	FilterDebug key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Connect: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "connect wallet"),
		),
		CreateToken: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create token"),
		),
		CreateAccount: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "create account"),
		),
		Mint: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mint"),
		),
		Transfer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transfer"),
		),
		Burn: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "burn"),
		),
		TokenInfo: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "token info"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),

		Approve: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "approve"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "decline"),
		),

		Logs: key.NewBinding(
			key.WithKeys("l", "f12"),
			key.WithHelp("l", "logs"),
		),
		FilterInfo: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "info"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "warn"),
		),
		FilterError: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "error"),
		),
		FilterDebug: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("F4", "debug"),
		),
	}
}

// ActionFor returns the dashboard action bound to the key, if any
func (k KeyMap) ActionFor(msg tea.KeyMsg) (Action, bool) {
	bindings := map[Action]key.Binding{
		ActionConnect:       k.Connect,
		ActionCreateToken:   k.CreateToken,
		ActionCreateAccount: k.CreateAccount,
		ActionMint:          k.Mint,
		ActionTransfer:      k.Transfer,
		ActionBurn:          k.Burn,
		ActionTokenInfo:     k.TokenInfo,
	}
	for _, action := range Actions {
		if key.Matches(msg, bindings[action]) {
			return action, true
		}
	}
	return 0, false
}

// Binding returns the key binding of an action
func (k KeyMap) Binding(action Action) key.Binding {
	switch action {
	case ActionConnect:
		return k.Connect
	case ActionCreateToken:
		return k.CreateToken
	case ActionCreateAccount:
		return k.CreateAccount
	case ActionMint:
		return k.Mint
	case ActionTransfer:
		return k.Transfer
	case ActionBurn:
		return k.Burn
	default:
		return k.TokenInfo
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns extended help text
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.CreateToken, k.CreateAccount, k.TokenInfo},
		{k.Mint, k.Transfer, k.Burn, k.Refresh},
		{k.Submit, k.Tab, k.ShiftTab, k.Back},
		{k.Logs, k.Help, k.Quit},
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteDashboard:
		return []key.Binding{
			k.Connect, k.CreateToken, k.CreateAccount, k.Mint,
			k.Transfer, k.Burn, k.TokenInfo, k.Refresh, k.Logs, k.Quit,
		}
	case RouteLogs:
		return []key.Binding{k.FilterInfo, k.FilterWarn, k.FilterError, k.FilterDebug, k.Up, k.Down, k.Back}
	default:
		return k.ShortHelp()
	}
}

// FormHelp returns help for input forms
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.Tab, k.ShiftTab, k.Submit, k.Back}
}

// ApprovalHelp returns help for the approval prompt
func (k KeyMap) ApprovalHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Decline}
}
