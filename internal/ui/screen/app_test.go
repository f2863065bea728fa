package screen

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain"
	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/component"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/router"
	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// balanceClient отвечает только на GetBalance.
type balanceClient struct {
	blockchain.Client
	lamports uint64
}

func (c *balanceClient) GetBalance(context.Context, solana.PublicKey, rpc.CommitmentType) (uint64, error) {
	return c.lamports, nil
}

type staticLogs []logger.LogEntry

func (l staticLogs) GetRecentLogs(int) []logger.LogEntry { return l }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, signer wallet.Signer) (*App, chan tea.Msg) {
	t.Helper()
	log := zaptest.NewLogger(t)
	engine := workflow.NewEngine(&balanceClient{lamports: 3 * solana.LAMPORTS_PER_SOL}, log, workflow.Options{})
	runner := ui.NewActionRunner(context.Background(), engine, workflow.NewSession(signer), log)
	bus := make(chan tea.Msg, 1)
	app := NewApp(Config{
		Runner:          runner,
		Logs:            staticLogs{{Timestamp: time.Now(), Level: "info", Message: "Wallet connected"}},
		Network:         "http://127.0.0.1:8899",
		DefaultDecimals: 6,
		Bus:             bus,
	})
	return app, bus
}

func newKeypairSigner() wallet.Signer {
	key := solana.NewWallet().PrivateKey
	return wallet.NewKeypairSigner(&wallet.Wallet{PrivateKey: key, PublicKey: key.PublicKey()})
}

func dashboardOf(t *testing.T, app *App) *DashboardScreen {
	t.Helper()
	d, ok := app.Router().Current().(*DashboardScreen)
	require.True(t, ok, "dashboard must be on top")
	return d
}

func TestApp_ConnectFlow(t *testing.T) {
	app, _ := newTestApp(t, newKeypairSigner())
	d := dashboardOf(t, app)

	_, cmd := app.Update(keyRunes("w"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, d.Running(ui.ActionConnect))
	assert.Equal(t, component.PaneRunning, d.Pane(ui.ActionConnect).State())

	result, ok := cmd().(ui.ActionResultMsg)
	require.True(t, ok)
	require.NoError(t, result.Err)

	_, cmd = app.Update(result)
	assert.Equal(t, 0, d.Running(ui.ActionConnect))
	assert.Equal(t, component.PaneSuccess, d.Pane(ui.ActionConnect).State())
	assert.Contains(t, d.Pane(ui.ActionConnect).Body(), "Balance: 3 SOL")

	require.NotNil(t, cmd)
	status, ok := cmd().(ui.StatusMsg)
	require.True(t, ok)
	require.NoError(t, status.Err)
	assert.True(t, status.Status.Session.Connected())
	app.Update(status)
	assert.NotEmpty(t, app.View())
}

func TestApp_SubmitWithoutTokenShowsPrecondition(t *testing.T) {
	app, _ := newTestApp(t, newKeypairSigner())
	d := dashboardOf(t, app)

	_, cmd := app.Update(keyRunes("m"))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushMsg)
	require.True(t, ok)
	app.Update(push)
	assert.Equal(t, 2, app.Router().Depth())
	assert.IsType(t, &InputScreen{}, app.Router().Current())

	app.Update(router.PopMsg{})
	_, cmd = app.Update(ui.SubmitMsg{Action: ui.ActionMint, Input: ui.Input{Amount: "5"}})
	require.NotNil(t, cmd)

	result := cmd().(ui.ActionResultMsg)
	var precondition *workflow.PreconditionError
	require.ErrorAs(t, result.Err, &precondition)

	app.Update(result)
	assert.Equal(t, component.PaneFailed, d.Pane(ui.ActionMint).State())
	assert.Equal(t, "Precondition failed: connect a wallet first", d.Pane(ui.ActionMint).Body())
}

func TestApp_ApprovalPrompt(t *testing.T) {
	app, bus := newTestApp(t, newKeypairSigner())
	approver := ui.NewApprover(bus)
	req := wallet.ApprovalRequest{Kind: wallet.RequestConnect, Account: solana.NewWallet().PublicKey()}

	for _, tc := range []struct {
		key  tea.KeyMsg
		want bool
	}{
		{keyRunes("y"), true},
		{keyRunes("n"), false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	} {
		done := make(chan bool, 1)
		go func() {
			ok, err := approver.Approve(context.Background(), req)
			assert.NoError(t, err)
			done <- ok
		}()

		_, cmd := app.Update(<-bus)
		require.NotNil(t, cmd, "listener must be re-armed")
		require.NotNil(t, app.Pending())
		assert.Contains(t, app.View(), "Wallet approval")

		// Пока открыт запрос, клавиши действий не запускают операции.
		_, cmd = app.Update(keyRunes("w"))
		assert.Nil(t, cmd)

		app.Update(tc.key)
		assert.Nil(t, app.Pending())
		select {
		case got := <-done:
			assert.Equal(t, tc.want, got)
		case <-time.After(time.Second):
			t.Fatal("approver did not return")
		}
	}
}

func TestApp_LogsRoute(t *testing.T) {
	app, _ := newTestApp(t, newKeypairSigner())
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	_, cmd := app.Update(keyRunes("l"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	logs, ok := app.Router().Current().(*LogsScreen)
	require.True(t, ok)
	assert.Contains(t, app.View(), "Wallet connected")

	app.Update(tea.KeyMsg{Type: tea.KeyF4})
	assert.True(t, logs.Viewer().Filter().ShowDebug)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, app.Router().Depth())
}

func TestInputScreen_Transfer(t *testing.T) {
	s := NewInputScreen(ui.ActionTransfer, 6)
	dest := solana.NewWallet().PublicKey()

	s.Update(keyRunes("not-an-address"))
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter on the first field moves focus")

	s.Update(keyRunes("10"))
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "invalid destination blocks submit")

	s = NewInputScreen(ui.ActionTransfer, 6)
	s.Update(keyRunes(dest.String()))
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(keyRunes("2.5"))
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, ui.Input{Amount: "2.5", Destination: dest.String()}, s.Input())
}

func TestInputScreen_DefaultDecimals(t *testing.T) {
	s := NewInputScreen(ui.ActionCreateToken, 9)
	assert.Equal(t, "9", s.Input().Decimals)

	s.Update(keyRunes("300"))
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	s = NewInputScreen(ui.ActionCreateToken, 9)
	s.Update(keyRunes("0"))
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, "0", s.Input().Decimals)
}
