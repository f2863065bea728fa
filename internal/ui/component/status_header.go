package component

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// StatusHeader shows the session state: wallet, balances and current token
type StatusHeader struct {
	network   string
	status    *workflow.Status
	err       error
	updatedAt time.Time
	style     style.HeaderStyles
	width     int
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(network string) *StatusHeader {
	return &StatusHeader{
		network: network,
		style:   style.NewHeaderStyles(style.DefaultPalette()),
	}
}

// SetStatus updates the header from a status snapshot. Ошибка чтения
// сохраняет прежний снимок и помечает RPC как недоступный.
func (sh *StatusHeader) SetStatus(status *workflow.Status, err error) {
	sh.err = err
	if err != nil {
		return
	}
	sh.status = status
	sh.updatedAt = time.Now()
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
}

// View renders the status header
func (sh *StatusHeader) View() string {
	title := sh.style.Title.Render("Solana Token Dashboard")
	network := sh.style.Label.Render("RPC ") + sh.style.Value.Render(sh.network)
	if sh.err != nil {
		network += " " + sh.style.Offline.Render("unreachable")
	} else if !sh.updatedAt.IsZero() {
		network += sh.style.Label.Render(" updated " + sh.updatedAt.Format("15:04:05"))
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", network),
		sh.walletLine(),
		sh.tokenLine(),
	}

	container := sh.style.Container
	if sh.width > 2 {
		container = container.Width(sh.width - 2)
	}
	return container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (sh *StatusHeader) walletLine() string {
	if sh.status == nil || !sh.status.Session.Connected() {
		return sh.style.Label.Render("Wallet ") + sh.style.Offline.Render("not connected")
	}
	line := sh.style.Label.Render("Wallet ") + sh.style.Value.Render(ShortKey(sh.status.Session.Wallet))
	if sh.status.SOLBalance != nil {
		line += "  " + sh.style.Balance.Render(fmt.Sprintf("%s SOL", sh.status.SOLBalance))
	}
	return line
}

func (sh *StatusHeader) tokenLine() string {
	if sh.status == nil || !sh.status.Session.HasMint() {
		return sh.style.Label.Render("Token  none")
	}
	snap := sh.status.Session
	line := sh.style.Label.Render("Token  ") +
		sh.style.Token.Render(ShortKey(snap.Mint)) +
		sh.style.Label.Render(fmt.Sprintf(" (decimals %d)", snap.Decimals))
	if sh.status.Token != nil {
		line += sh.style.Label.Render("  supply ") + sh.style.Value.Render(sh.status.Token.UISupply().String())
	}
	if sh.status.TokenBalance != nil {
		line += sh.style.Label.Render("  balance ") + sh.style.Balance.Render(sh.status.TokenBalance.String())
	} else if !snap.HasAccount() {
		line += sh.style.Label.Render("  no token account")
	}
	return line
}

// ShortKey сокращает адрес до вида ABCD…WXYZ.
func ShortKey(key solana.PublicKey) string {
	s := key.String()
	if len(s) <= 12 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}
