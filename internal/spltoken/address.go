package spltoken

import (
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrEmptyAddress    = errors.New("address cannot be empty")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrOffCurveAddress = errors.New("address is not on the ed25519 curve")
)

// ParseWalletAddress разбирает адрес кошелька, введённый пользователем.
// Адрес должен быть base58, 32 байта и лежать на кривой ed25519:
// владельцем ATA может быть только обычный кошелёк, не PDA.
func ParseWalletAddress(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.PublicKey{}, ErrEmptyAddress
	}
	pubkey, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w %q: %v", ErrInvalidAddress, s, err)
	}
	if !IsOnCurve(pubkey) {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrOffCurveAddress, pubkey)
	}
	return pubkey, nil
}

// IsOnCurve проверяет, что байты ключа - корректная точка ed25519.
func IsOnCurve(pubkey solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pubkey.Bytes())
	return err == nil
}
