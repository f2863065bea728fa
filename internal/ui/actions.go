package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// ActionRunner превращает действия дашборда в tea.Cmd над одной сессией.
type ActionRunner struct {
	ctx     context.Context
	engine  *workflow.Engine
	session *workflow.Session
	logger  *zap.Logger
}

// NewActionRunner создаёт исполнителя действий. ctx отменяется при выходе из программы.
func NewActionRunner(ctx context.Context, engine *workflow.Engine, session *workflow.Session, logger *zap.Logger) *ActionRunner {
	return &ActionRunner{
		ctx:     ctx,
		engine:  engine,
		session: session,
		logger:  logger.Named("ui"),
	}
}

// Session returns the session the runner operates on
func (r *ActionRunner) Session() *workflow.Session {
	return r.session
}

// Run запускает действие в фоне; результат приходит как ActionResultMsg.
func (r *ActionRunner) Run(action Action, in Input) tea.Cmd {
	return func() tea.Msg {
		result, err := r.execute(action, in)
		if err != nil {
			r.logger.Debug("Action failed", zap.Stringer("action", action), zap.Error(err))
		}
		return ActionResultMsg{Action: action, Result: result, Err: err, Finished: time.Now()}
	}
}

func (r *ActionRunner) execute(action Action, in Input) (fmt.Stringer, error) {
	switch action {
	case ActionConnect:
		return r.engine.Connect(r.ctx, r.session)
	case ActionCreateToken:
		decimals, err := workflow.ParseDecimals(in.Decimals)
		if err != nil {
			return nil, err
		}
		return r.engine.CreateToken(r.ctx, r.session, decimals)
	case ActionCreateAccount:
		return r.engine.CreateAccount(r.ctx, r.session)
	case ActionMint:
		return r.engine.Mint(r.ctx, r.session, in.Amount)
	case ActionTransfer:
		return r.engine.Transfer(r.ctx, r.session, in.Destination, in.Amount)
	case ActionBurn:
		return r.engine.Burn(r.ctx, r.session, in.Amount)
	case ActionTokenInfo:
		return r.engine.TokenInfo(r.ctx, r.session)
	default:
		return nil, fmt.Errorf("unsupported action %d", action)
	}
}

// Status запрашивает снимок состояния для заголовка.
func (r *ActionRunner) Status() tea.Cmd {
	return func() tea.Msg {
		status, err := r.engine.Status(r.ctx, r.session)
		return StatusMsg{Status: status, Err: err}
	}
}

// LogTick schedules the next log pane refresh
func LogTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return LogTickMsg(t)
	})
}
