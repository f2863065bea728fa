package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// RequestKind - тип запроса к пользователю.
type RequestKind string

const (
	RequestConnect RequestKind = "connect"
	RequestSign    RequestKind = "sign"
)

// ApprovalRequest описывает то, что пользователь должен подтвердить.
type ApprovalRequest struct {
	Kind         RequestKind
	Account      solana.PublicKey
	Instructions int
	Programs     []solana.PublicKey
}

// Summary возвращает краткое описание запроса для показа пользователю.
func (r ApprovalRequest) Summary() string {
	if r.Kind == RequestConnect {
		return fmt.Sprintf("Connect wallet %s?", r.Account)
	}
	programs := make([]string, 0, len(r.Programs))
	for _, p := range r.Programs {
		programs = append(programs, programName(p))
	}
	return fmt.Sprintf("Sign transaction paid by %s: %d instruction(s) [%s]?",
		r.Account, r.Instructions, strings.Join(programs, ", "))
}

// Approver решает, подтверждает ли пользователь запрос. Может блокироваться сколь угодно долго.
type Approver interface {
	Approve(ctx context.Context, req ApprovalRequest) (bool, error)
}

// ApproverFunc адаптирует функцию к интерфейсу Approver.
type ApproverFunc func(ctx context.Context, req ApprovalRequest) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, req ApprovalRequest) (bool, error) {
	return f(ctx, req)
}

// AutoApprove подтверждает всё без вопросов.
var AutoApprove = ApproverFunc(func(context.Context, ApprovalRequest) (bool, error) {
	return true, nil
})

// ApprovalSigner оборачивает подписанта и спрашивает пользователя перед каждым действием.
type ApprovalSigner struct {
	inner    Signer
	approver Approver
	account  solana.PublicKey
	logger   *zap.Logger
}

// NewApprovalSigner создаёт интерактивного подписанта.
func NewApprovalSigner(inner Signer, approver Approver, logger *zap.Logger) *ApprovalSigner {
	return &ApprovalSigner{
		inner:    inner,
		approver: approver,
		logger:   logger.Named("approval-signer"),
	}
}

// Connect подключает кошелёк после подтверждения пользователем.
func (s *ApprovalSigner) Connect(ctx context.Context) (solana.PublicKey, error) {
	account, err := s.inner.Connect(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if err := s.ask(ctx, ApprovalRequest{Kind: RequestConnect, Account: account}); err != nil {
		return solana.PublicKey{}, err
	}
	s.account = account
	return account, nil
}

// SignTransaction подписывает транзакцию после подтверждения пользователем.
func (s *ApprovalSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	req := ApprovalRequest{
		Kind:         RequestSign,
		Instructions: len(tx.Message.Instructions),
	}
	if len(tx.Message.AccountKeys) > 0 {
		req.Account = tx.Message.AccountKeys[0]
	}
	seen := make(map[solana.PublicKey]bool)
	for _, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
			continue
		}
		program := tx.Message.AccountKeys[ix.ProgramIDIndex]
		if !seen[program] {
			seen[program] = true
			req.Programs = append(req.Programs, program)
		}
	}

	if err := s.ask(ctx, req); err != nil {
		return nil, err
	}
	return s.inner.SignTransaction(ctx, tx)
}

func (s *ApprovalSigner) ask(ctx context.Context, req ApprovalRequest) error {
	approved, err := s.approver.Approve(ctx, req)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		s.logger.Info("Request declined", zap.String("kind", string(req.Kind)))
		return ErrRejected
	}
	return nil
}

func programName(program solana.PublicKey) string {
	switch {
	case program.Equals(solana.SystemProgramID):
		return "System"
	case program.Equals(solana.TokenProgramID):
		return "Token"
	case program.Equals(solana.SPLAssociatedTokenAccountProgramID):
		return "AssociatedToken"
	default:
		return program.String()
	}
}
