package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrRejected возвращается, когда пользователь отклонил запрос в подписанте.
	ErrRejected = errors.New("request rejected by user")
	// ErrNotASigner - ключ не входит в список подписантов транзакции.
	ErrNotASigner = errors.New("key is not a required signer of the transaction")
)

// Signer - внешний интерактивный подписант (аналог расширения-кошелька).
// Подписывает как плательщик комиссии и authority.
type Signer interface {
	Connect(ctx context.Context) (solana.PublicKey, error)
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// KeypairSigner - безголовый подписант на локальном ключе. Используется в скриптах и тестах.
type KeypairSigner struct {
	wallet *Wallet
}

// NewKeypairSigner создаёт подписанта для кошелька w.
func NewKeypairSigner(w *Wallet) *KeypairSigner {
	return &KeypairSigner{wallet: w}
}

// Connect возвращает адрес кошелька.
func (s *KeypairSigner) Connect(ctx context.Context) (solana.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return solana.PublicKey{}, err
	}
	return s.wallet.PublicKey, nil
}

// SignTransaction добавляет подпись кошелька, не трогая уже существующие подписи.
func (s *KeypairSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := PartialSign(tx, s.wallet.PrivateKey); err != nil {
		return nil, err
	}
	return tx, nil
}

// PartialSign подписывает сообщение транзакции ключами keys.
// Подписи остальных подписантов остаются как есть (возможно, нулевыми).
func PartialSign(tx *solana.Transaction, keys ...solana.PrivateKey) error {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return fmt.Errorf("malformed message: %d signers, %d account keys", required, len(tx.Message.AccountKeys))
	}
	if len(tx.Signatures) < required {
		signatures := make([]solana.Signature, required)
		copy(signatures, tx.Signatures)
		tx.Signatures = signatures
	}

	for _, key := range keys {
		pub := key.PublicKey()
		index := -1
		for i, signer := range tx.Message.AccountKeys[:required] {
			if signer.Equals(pub) {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrNotASigner, pub)
		}

		signature, err := key.Sign(message)
		if err != nil {
			return fmt.Errorf("failed to sign with %s: %w", pub, err)
		}
		tx.Signatures[index] = signature
	}
	return nil
}

// MissingSigners возвращает подписантов, чьих подписей в транзакции ещё нет.
func MissingSigners(tx *solana.Transaction) []solana.PublicKey {
	required := int(tx.Message.Header.NumRequiredSignatures)
	var missing []solana.PublicKey
	for i := 0; i < required && i < len(tx.Message.AccountKeys); i++ {
		if i >= len(tx.Signatures) || tx.Signatures[i] == (solana.Signature{}) {
			missing = append(missing, tx.Message.AccountKeys[i])
		}
	}
	return missing
}
