package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
)

// Approver публикует запросы подписи в шину UI и ждёт ответа пользователя.
type Approver struct {
	bus chan<- tea.Msg
}

// NewApprover создаёт approver поверх шины bus (обычно Bus).
func NewApprover(bus chan<- tea.Msg) *Approver {
	return &Approver{bus: bus}
}

// Approve блокируется до ответа пользователя или отмены ctx.
func (a *Approver) Approve(ctx context.Context, req wallet.ApprovalRequest) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case a.bus <- ApprovalRequestMsg{Request: req, reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case approved := <-reply:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

var _ wallet.Approver = (*Approver)(nil)
