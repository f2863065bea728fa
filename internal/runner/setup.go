// internal/runner/setup.go
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain/solbc"
	"github.com/Chizober/Solana-Token-Dashboard/internal/config"
	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// DefaultKeypairPath - стандартный путь ключа solana-keygen.
func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "solana", "id.json")
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// LoadWallet загружает ключ подписанта.
// Порядок: private_key, keypair_path, wallets_file + name, затем ключ solana-keygen по умолчанию.
func LoadWallet(cfg config.WalletConfig) (*wallet.Wallet, error) {
	switch {
	case cfg.PrivateKey != "":
		return wallet.NewWallet(cfg.PrivateKey)
	case cfg.KeypairPath != "":
		return wallet.LoadKeypairFile(cfg.KeypairPath)
	case cfg.WalletsFile != "":
		wallets, err := wallet.LoadWallets(cfg.WalletsFile)
		if err != nil {
			return nil, err
		}
		w, ok := wallets[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("wallet %q not found in %s", cfg.Name, cfg.WalletsFile)
		}
		return w, nil
	default:
		return wallet.LoadKeypairFile(DefaultKeypairPath())
	}
}

// NewSigner оборачивает локальный ключ в подписанта. Без auto_approve каждый
// запрос проходит через approver.
func NewSigner(w *wallet.Wallet, autoApprove bool, approver wallet.Approver, logger *zap.Logger) wallet.Signer {
	signer := wallet.NewKeypairSigner(w)
	if autoApprove || approver == nil {
		return signer
	}
	return wallet.NewApprovalSigner(signer, approver, logger)
}

// NewEngine создаёт RPC-клиент и движок по конфигурации.
func NewEngine(cfg *config.Config, logger *zap.Logger) *workflow.Engine {
	client := solbc.NewClient(cfg.RPCURL, logger,
		solbc.WithPollInterval(cfg.PollInterval),
		solbc.WithConfirmTimeout(cfg.ConfirmTimeout),
		solbc.WithPreflightCommitment(cfg.CommitmentType()),
	)
	return workflow.NewEngine(client, logger, workflow.Options{
		Commitment: cfg.CommitmentType(),
		Airdrop: workflow.AirdropOptions{
			Enabled:   cfg.Airdrop.Enabled,
			Threshold: cfg.Airdrop.ThresholdLamports(),
		},
	})
}

// PromptApprover спрашивает подтверждение в терминале (y/N).
type PromptApprover struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptApprover создаёт approver поверх ввода in и вывода out.
func NewPromptApprover(in io.Reader, out io.Writer) *PromptApprover {
	return &PromptApprover{in: bufio.NewReader(in), out: out}
}

// Approve печатает запрос и ждёт ответа пользователя.
func (p *PromptApprover) Approve(ctx context.Context, req wallet.ApprovalRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", req.Summary())
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var _ wallet.Approver = (*PromptApprover)(nil)
