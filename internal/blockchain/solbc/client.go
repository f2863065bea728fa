// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain"
)

const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultConfirmTimeout = 60 * time.Second
)

var errNotConfirmed = errors.New("transaction not confirmed yet")

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc            *rpc.Client
	logger         *zap.Logger
	pollInterval   time.Duration
	confirmTimeout time.Duration
	preflight      rpc.CommitmentType
}

// Option настраивает Client.
type Option func(*Client)

// WithPollInterval задаёт интервал опроса статуса подписи.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithConfirmTimeout задаёт предельное время ожидания подтверждения.
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.confirmTimeout = d
		}
	}
}

// WithPreflightCommitment задаёт commitment для preflight-симуляции при отправке.
func WithPreflightCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) {
		c.preflight = commitment
	}
}

// IsAccountNotFoundError проверяет, является ли ошибка "not found"
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) || errors.Is(err, blockchain.ErrAccountNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		rpc:            rpc.New(rpcURL),
		logger:         logger.Named("solbc-client"),
		pollInterval:   DefaultPollInterval,
		confirmTimeout: DefaultConfirmTimeout,
		preflight:      rpc.CommitmentConfirmed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBalance получает баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, commitment)
	if err != nil {
		c.logger.Error("GetBalance error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// RequestAirdrop запрашивает лампорты у faucet тестовой сети.
func (c *Client) RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, pubkey, lamports, commitment)
	if err != nil {
		c.logger.Error("RequestAirdrop error",
			zap.String("pubkey", pubkey.String()),
			zap.Uint64("lamports", lamports),
			zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetLatestBlockhash получает свежий blockhash. Результат не кэшируется.
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, commitment)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// GetMinimumBalanceForRentExemption возвращает rent-exempt минимум для size байт.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64, commitment rpc.CommitmentType) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size, commitment)
	if err != nil {
		c.logger.Error("GetMinimumBalanceForRentExemption error", zap.Uint64("size", size), zap.Error(err))
		return 0, err
	}
	return lamports, nil
}

// GetAccountInfo получает информацию об аккаунте.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		if IsAccountNotFoundError(err) {
			return nil, blockchain.ErrAccountNotFound
		}
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, blockchain.ErrAccountNotFound
	}
	return result, nil
}

// SendTransaction отправляет транзакцию с preflight-проверкой.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.preflight,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// WaitForTransactionConfirmation опрашивает статус подписи, пока она не достигнет commitment.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	poll := func() (struct{}, error) {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, false, signature)
		if err != nil {
			c.logger.Warn("Error getting signature statuses", zap.Error(err))
			return struct{}{}, err
		}
		if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return struct{}{}, errNotConfirmed
		}
		status := statuses.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(&blockchain.TransactionFailedError{
				Signature: signature,
				Reason:    status.Err,
			})
		}
		if Reached(status.ConfirmationStatus, commitment) {
			return struct{}{}, nil
		}
		return struct{}{}, errNotConfirmed
	}

	_, err := backoff.Retry(ctx, poll,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.pollInterval)),
		backoff.WithMaxElapsedTime(c.confirmTimeout),
	)
	if err == nil {
		return nil
	}

	var failed *blockchain.TransactionFailedError
	if errors.As(err, &failed) || ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %s not %s after %s (last: %v)",
		blockchain.ErrConfirmationTimeout, signature, commitment, c.confirmTimeout, err)
}

// GetTokenAccount получает и декодирует SPL токен-аккаунт.
func (c *Client) GetTokenAccount(ctx context.Context, pubkey solana.PublicKey) (*token.Account, error) {
	var account token.Account
	if err := c.rpc.GetAccountDataInto(ctx, pubkey, &account); err != nil {
		if IsAccountNotFoundError(err) {
			return nil, blockchain.ErrAccountNotFound
		}
		c.logger.Debug("GetTokenAccount error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return &account, nil
}

// GetMint получает и декодирует SPL mint.
func (c *Client) GetMint(ctx context.Context, pubkey solana.PublicKey) (*token.Mint, error) {
	var mint token.Mint
	if err := c.rpc.GetAccountDataInto(ctx, pubkey, &mint); err != nil {
		if IsAccountNotFoundError(err) {
			return nil, blockchain.ErrAccountNotFound
		}
		c.logger.Debug("GetMint error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return &mint, nil
}

// Reached сообщает, удовлетворяет ли статус подтверждения требуемому commitment.
func Reached(status rpc.ConfirmationStatusType, commitment rpc.CommitmentType) bool {
	switch commitment {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status == rpc.ConfirmationStatusProcessed ||
			status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	default:
		return status == rpc.ConfirmationStatusConfirmed ||
			status == rpc.ConfirmationStatusFinalized
	}
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
