// internal/workflow/results.go
package workflow

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/Chizober/Solana-Token-Dashboard/internal/spltoken"
)

// ConnectResult - результат подключения кошелька.
type ConnectResult struct {
	Wallet           solana.PublicKey
	Balance          decimal.Decimal // SOL
	Airdropped       bool
	AirdropSignature solana.Signature
	Warnings         []string
}

func (r *ConnectResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Connected: %s\n", r.Wallet)
	fmt.Fprintf(&b, "Balance: %s SOL", r.Balance)
	if r.Airdropped {
		fmt.Fprintf(&b, "\nAirdrop: %s", r.AirdropSignature)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s", w)
	}
	return b.String()
}

// TokenInfo - состояние mint в сети.
type TokenInfo struct {
	Mint            solana.PublicKey
	Decimals        uint8
	Supply          uint64
	MintAuthority   *solana.PublicKey
	FreezeAuthority *solana.PublicKey
}

// UISupply возвращает эмиссию с учётом decimals.
func (t *TokenInfo) UISupply() decimal.Decimal {
	return spltoken.FromRaw(t.Supply, t.Decimals)
}

func (t *TokenInfo) String() string {
	return fmt.Sprintf("Mint: %s\nDecimals: %d\nSupply (raw): %d\nMint Authority: %s\nFreeze Authority: %s",
		t.Mint, t.Decimals, t.Supply, optionalKey(t.MintAuthority), optionalKey(t.FreezeAuthority))
}

// CreateTokenResult - результат создания токена.
type CreateTokenResult struct {
	Signature solana.Signature
	Info      *TokenInfo
}

func (r *CreateTokenResult) String() string {
	return fmt.Sprintf("Token created: %s\nDecimals: %d\nTx: %s", r.Info.Mint, r.Info.Decimals, r.Signature)
}

// AccountResult - результат создания персонального токен-аккаунта.
type AccountResult struct {
	Account   solana.PublicKey
	Created   bool
	Signature solana.Signature
}

func (r *AccountResult) String() string {
	if !r.Created {
		return fmt.Sprintf("Token account already exists: %s", r.Account)
	}
	return fmt.Sprintf("Token account created: %s\nTx: %s", r.Account, r.Signature)
}

// BalanceResult - результат mint или burn: перечитанный из сети баланс аккаунта.
type BalanceResult struct {
	Signature  solana.Signature
	Account    solana.PublicKey
	Amount     decimal.Decimal
	RawAmount  uint64
	Balance    decimal.Decimal
	RawBalance uint64
	action     string
}

func (r *BalanceResult) String() string {
	return fmt.Sprintf("%s %s tokens\nBalance: %s (raw %d)\nTx: %s",
		r.action, r.Amount, r.Balance, r.RawBalance, r.Signature)
}

// TransferResult - результат перевода.
type TransferResult struct {
	Signature          solana.Signature
	Destination        solana.PublicKey
	DestinationAccount solana.PublicKey
	CreatedAccount     bool
	Amount             decimal.Decimal
	RawAmount          uint64
	Balance            decimal.Decimal
	RawBalance         uint64
}

func (r *TransferResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transferred %s tokens to %s\n", r.Amount, r.Destination)
	if r.CreatedAccount {
		fmt.Fprintf(&b, "Created recipient account: %s\n", r.DestinationAccount)
	}
	fmt.Fprintf(&b, "Balance: %s (raw %d)\nTx: %s", r.Balance, r.RawBalance, r.Signature)
	return b.String()
}

// Status - сводка для заголовка дашборда. Отсутствующие части остаются nil.
type Status struct {
	Session      Snapshot
	SOLBalance   *decimal.Decimal
	Token        *TokenInfo
	TokenBalance *decimal.Decimal
}

func optionalKey(key *solana.PublicKey) string {
	if key == nil {
		return "null"
	}
	return key.String()
}

func (s *Status) String() string {
	if !s.Session.Connected() {
		return "Wallet: not connected"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Wallet: %s", s.Session.Wallet)
	if s.SOLBalance != nil {
		fmt.Fprintf(&b, "\nSOL: %s", s.SOLBalance)
	}
	if s.Session.HasMint() {
		fmt.Fprintf(&b, "\nMint: %s (decimals %d)", s.Session.Mint, s.Session.Decimals)
	}
	if s.Token != nil {
		fmt.Fprintf(&b, "\nSupply: %s", s.Token.UISupply())
	}
	if s.Session.HasAccount() {
		fmt.Fprintf(&b, "\nAccount: %s", s.Session.Account)
	}
	if s.TokenBalance != nil {
		fmt.Fprintf(&b, "\nBalance: %s", s.TokenBalance)
	}
	return b.String()
}
