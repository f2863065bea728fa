// internal/workflow/session.go
package workflow

import (
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
)

// DefaultDecimals - количество знаков нового токена, если пользователь не указал своё.
const DefaultDecimals uint8 = 6

// Session хранит состояние одного пользователя: подписанта, кошелёк,
// текущий mint и персональный токен-аккаунт.
//
// run сериализует операции: каждая держит его до конца, поэтому два
// одновременных запуска выполняются по очереди. mu защищает сами поля,
// чтобы UI мог читать снимок во время выполнения операции.
type Session struct {
	ID string

	run sync.Mutex

	mu       sync.RWMutex
	signer   wallet.Signer
	wallet   solana.PublicKey
	mint     solana.PublicKey
	decimals uint8
	account  solana.PublicKey
}

// Snapshot - неизменяемая копия состояния сессии.
type Snapshot struct {
	Wallet   solana.PublicKey
	Mint     solana.PublicKey
	Decimals uint8
	Account  solana.PublicKey
}

func (s Snapshot) Connected() bool  { return !s.Wallet.IsZero() }
func (s Snapshot) HasMint() bool    { return !s.Mint.IsZero() }
func (s Snapshot) HasAccount() bool { return !s.Account.IsZero() }

// NewSession создаёт пустую сессию для подписанта signer.
func NewSession(signer wallet.Signer) *Session {
	return &Session{
		ID:       uuid.NewString(),
		signer:   signer,
		decimals: DefaultDecimals,
	}
}

// Snapshot возвращает текущее состояние сессии.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Wallet:   s.wallet,
		Mint:     s.mint,
		Decimals: s.decimals,
		Account:  s.account,
	}
}

func (s *Session) setWallet(pubkey solana.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = pubkey
}

// setMint сбрасывает персональный аккаунт: он относился к прежнему mint.
func (s *Session) setMint(mint solana.PublicKey, decimals uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mint = mint
	s.decimals = decimals
	s.account = solana.PublicKey{}
}

func (s *Session) setAccount(account solana.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
}
