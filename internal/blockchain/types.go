// internal/blockchain/types.go
package blockchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrAccountNotFound возвращается, когда по адресу нет аккаунта.
	ErrAccountNotFound = errors.New("account not found")
	// ErrConfirmationTimeout возвращается, если транзакция не достигла нужного commitment вовремя.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// TransactionFailedError описывает транзакцию, которая попала в блок, но завершилась ошибкой.
type TransactionFailedError struct {
	Signature solana.Signature
	Reason    interface{}
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Reason)
}

// Client определяет общий интерфейс для взаимодействия с блокчейном.
type Client interface {
	// Получить баланс аккаунта в лампортах.
	GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
	// Запросить airdrop (только тестовые сети).
	RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error)
	// Получить последний blockhash.
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error)
	// Минимальный баланс для rent-exemption аккаунта заданного размера.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64, commitment rpc.CommitmentType) (uint64, error)
	// Получить информацию об аккаунте. Отсутствующий аккаунт -> ErrAccountNotFound.
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	// Отправить полностью подписанную транзакцию.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// Ожидание подтверждения транзакции.
	WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error
	// Получить токен-аккаунт SPL.
	GetTokenAccount(ctx context.Context, pubkey solana.PublicKey) (*token.Account, error)
	// Получить mint SPL.
	GetMint(ctx context.Context, pubkey solana.PublicKey) (*token.Mint, error)
}
