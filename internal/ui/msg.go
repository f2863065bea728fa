package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// Action - одно действие дашборда (одна клавиша, одна панель результата).
type Action int

const (
	ActionConnect Action = iota
	ActionCreateToken
	ActionCreateAccount
	ActionMint
	ActionTransfer
	ActionBurn
	ActionTokenInfo
)

// Actions - все действия в порядке отображения.
var Actions = []Action{
	ActionConnect,
	ActionCreateToken,
	ActionCreateAccount,
	ActionMint,
	ActionTransfer,
	ActionBurn,
	ActionTokenInfo,
}

// String returns the title of the action
func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "Connect Wallet"
	case ActionCreateToken:
		return "Create Token"
	case ActionCreateAccount:
		return "Create Token Account"
	case ActionMint:
		return "Mint"
	case ActionTransfer:
		return "Transfer"
	case ActionBurn:
		return "Burn"
	case ActionTokenInfo:
		return "Token Info"
	default:
		return "Unknown"
	}
}

// NeedsInput сообщает, требует ли действие ввода перед запуском.
func (a Action) NeedsInput() bool {
	switch a {
	case ActionCreateToken, ActionMint, ActionTransfer, ActionBurn:
		return true
	default:
		return false
	}
}

// Input - введённые пользователем строки. Разбор и проверка выполняются в движке.
type Input struct {
	Decimals    string
	Amount      string
	Destination string
}

// SubmitMsg - форма ввода отправлена.
type SubmitMsg struct {
	Action Action
	Input  Input
}

// ActionResultMsg - завершение действия: результат или ошибка.
type ActionResultMsg struct {
	Action   Action
	Result   fmt.Stringer
	Err      error
	Finished time.Time
}

// StatusMsg carries a fresh status snapshot for the header
type StatusMsg struct {
	Status *workflow.Status
	Err    error
}

// ApprovalRequestMsg - подписант ждёт решения пользователя.
type ApprovalRequestMsg struct {
	Request wallet.ApprovalRequest
	reply   chan bool
}

// Answer передаёт решение ожидающему подписанту. Повторный ответ игнорируется.
func (m ApprovalRequestMsg) Answer(approved bool) {
	select {
	case m.reply <- approved:
	default:
	}
}

// LogTickMsg triggers log pane refresh
type LogTickMsg time.Time

// Event Bus for UI communication
var (
	// Bus is the global event bus for UI communication
	Bus = make(chan tea.Msg, 64)
)

// ListenBus returns a tea.Cmd that listens to the event bus
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return <-Bus
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteDashboard Route = iota
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "dashboard"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
