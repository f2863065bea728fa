package workflow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain"
	"github.com/Chizober/Solana-Token-Dashboard/internal/spltoken"
)

const testRentExemption = 1_461_600

// ledger - in-memory реализация blockchain.Client, исполняющая инструкции
// system, SPL Token и Associated Token Account.
type ledger struct {
	mu        sync.Mutex
	lamports  map[solana.PublicKey]uint64
	allocated map[solana.PublicKey]bool
	mints     map[solana.PublicKey]token.Mint
	accounts  map[solana.PublicKey]token.Account

	calls   map[string]int
	sent    []*solana.Transaction
	airdrop error
	confirm error
}

var _ blockchain.Client = (*ledger)(nil)

func newLedger() *ledger {
	return &ledger{
		lamports:  make(map[solana.PublicKey]uint64),
		allocated: make(map[solana.PublicKey]bool),
		mints:     make(map[solana.PublicKey]token.Mint),
		accounts:  make(map[solana.PublicKey]token.Account),
		calls:     make(map[string]int),
	}
}

func (l *ledger) track(method string) {
	l.calls[method]++
}

// networkCalls возвращает общее число обращений к клиенту.
func (l *ledger) networkCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, n := range l.calls {
		total += n
	}
	return total
}

func (l *ledger) sentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sent)
}

func (l *ledger) GetBalance(_ context.Context, pubkey solana.PublicKey, _ rpc.CommitmentType) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetBalance")
	return l.lamports[pubkey], nil
}

func (l *ledger) RequestAirdrop(_ context.Context, pubkey solana.PublicKey, lamports uint64, _ rpc.CommitmentType) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("RequestAirdrop")
	if l.airdrop != nil {
		return solana.Signature{}, l.airdrop
	}
	l.lamports[pubkey] += lamports
	return randomSignature(), nil
}

func (l *ledger) GetLatestBlockhash(context.Context, rpc.CommitmentType) (solana.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetLatestBlockhash")
	var hash solana.Hash
	_, _ = rand.Read(hash[:])
	return hash, nil
}

func (l *ledger) GetMinimumBalanceForRentExemption(context.Context, uint64, rpc.CommitmentType) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetMinimumBalanceForRentExemption")
	return testRentExemption, nil
}

func (l *ledger) GetAccountInfo(_ context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetAccountInfo")
	switch {
	case l.allocated[pubkey]:
		return &rpc.GetAccountInfoResult{Value: &rpc.Account{Owner: solana.TokenProgramID, Lamports: testRentExemption}}, nil
	default:
		if _, ok := l.accounts[pubkey]; ok {
			return &rpc.GetAccountInfoResult{Value: &rpc.Account{Owner: solana.TokenProgramID, Lamports: testRentExemption}}, nil
		}
		return nil, blockchain.ErrAccountNotFound
	}
}

func (l *ledger) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("SendTransaction")

	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, fmt.Errorf("signature verification failed: %w", err)
	}

	// Транзакция атомарна: изменения применяются к копии состояния.
	staged := l.clone()
	for i, ix := range tx.Message.Instructions {
		accounts := make([]solana.PublicKey, len(ix.Accounts))
		for j, index := range ix.Accounts {
			accounts[j] = tx.Message.AccountKeys[index]
		}
		program := tx.Message.AccountKeys[ix.ProgramIDIndex]
		if err := staged.execute(program, accounts, ix.Data); err != nil {
			return solana.Signature{}, fmt.Errorf("simulation failed: instruction %d: %w", i, err)
		}
	}

	l.lamports, l.allocated, l.mints, l.accounts = staged.lamports, staged.allocated, staged.mints, staged.accounts
	l.sent = append(l.sent, tx)
	return tx.Signatures[0], nil
}

func (l *ledger) WaitForTransactionConfirmation(context.Context, solana.Signature, rpc.CommitmentType) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("WaitForTransactionConfirmation")
	return l.confirm
}

func (l *ledger) GetTokenAccount(_ context.Context, pubkey solana.PublicKey) (*token.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetTokenAccount")
	acc, ok := l.accounts[pubkey]
	if !ok {
		return nil, blockchain.ErrAccountNotFound
	}
	return &acc, nil
}

func (l *ledger) GetMint(_ context.Context, pubkey solana.PublicKey) (*token.Mint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.track("GetMint")
	m, ok := l.mints[pubkey]
	if !ok {
		return nil, blockchain.ErrAccountNotFound
	}
	return &m, nil
}

func (l *ledger) clone() *ledger {
	c := newLedger()
	for k, v := range l.lamports {
		c.lamports[k] = v
	}
	for k, v := range l.allocated {
		c.allocated[k] = v
	}
	for k, v := range l.mints {
		c.mints[k] = v
	}
	for k, v := range l.accounts {
		c.accounts[k] = v
	}
	return c
}

func (l *ledger) execute(program solana.PublicKey, accounts []solana.PublicKey, data []byte) error {
	switch {
	case program.Equals(solana.SystemProgramID):
		return l.executeSystem(accounts, data)
	case program.Equals(solana.TokenProgramID):
		return l.executeToken(accounts, data)
	case program.Equals(solana.SPLAssociatedTokenAccountProgramID):
		return l.executeAssociated(accounts)
	default:
		return fmt.Errorf("unknown program %s", program)
	}
}

func (l *ledger) executeSystem(accounts []solana.PublicKey, data []byte) error {
	// u32 CreateAccount | u64 lamports | u64 space | owner
	if len(data) != 52 || binary.LittleEndian.Uint32(data) != 0 {
		return errors.New("unsupported system instruction")
	}
	payer, target := accounts[0], accounts[1]
	lamports := binary.LittleEndian.Uint64(data[4:])
	if l.allocated[target] {
		return errors.New("account already in use")
	}
	if l.lamports[payer] < lamports {
		return errors.New("insufficient lamports")
	}
	l.lamports[payer] -= lamports
	l.allocated[target] = true
	return nil
}

// Теги инструкций программы SPL Token.
const (
	tagInitializeMint uint8 = 0
	tagTransfer       uint8 = 3
	tagMintTo         uint8 = 7
	tagBurn           uint8 = 8
)

func (l *ledger) executeToken(accounts []solana.PublicKey, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty token instruction")
	}
	switch data[0] {
	case tagInitializeMint:
		if len(data) < 35 {
			return errors.New("invalid instruction data")
		}
		mint := accounts[0]
		if !l.allocated[mint] {
			return errors.New("mint account not allocated")
		}
		if _, ok := l.mints[mint]; ok {
			return errors.New("mint already initialized")
		}
		authority := solana.PublicKeyFromBytes(data[2:34])
		m := token.Mint{Decimals: data[1], MintAuthority: &authority, IsInitialized: true}
		if data[34] == 1 && len(data) >= 67 {
			freeze := solana.PublicKeyFromBytes(data[35:67])
			m.FreezeAuthority = &freeze
		}
		l.mints[mint] = m
		return nil

	case tagMintTo:
		mintKey, dest, authority := accounts[0], accounts[1], accounts[2]
		amount := binary.LittleEndian.Uint64(data[1:9])
		m, ok := l.mints[mintKey]
		if !ok {
			return errors.New("invalid mint")
		}
		if m.MintAuthority == nil || !m.MintAuthority.Equals(authority) {
			return errors.New("owner does not match")
		}
		acc, ok := l.accounts[dest]
		if !ok || !acc.Mint.Equals(mintKey) {
			return errors.New("invalid account data")
		}
		m.Supply += amount
		acc.Amount += amount
		l.mints[mintKey], l.accounts[dest] = m, acc
		return nil

	case tagTransfer:
		source, dest, owner := accounts[0], accounts[1], accounts[2]
		amount := binary.LittleEndian.Uint64(data[1:9])
		from, ok := l.accounts[source]
		if !ok || !from.Owner.Equals(owner) {
			return errors.New("owner does not match")
		}
		to, ok := l.accounts[dest]
		if !ok || !to.Mint.Equals(from.Mint) {
			return errors.New("invalid account data")
		}
		if from.Amount < amount {
			return errors.New("insufficient funds")
		}
		from.Amount -= amount
		l.accounts[source] = from
		to = l.accounts[dest]
		to.Amount += amount
		l.accounts[dest] = to
		return nil

	case tagBurn:
		account, mintKey, owner := accounts[0], accounts[1], accounts[2]
		amount := binary.LittleEndian.Uint64(data[1:9])
		acc, ok := l.accounts[account]
		if !ok || !acc.Owner.Equals(owner) {
			return errors.New("owner does not match")
		}
		if acc.Amount < amount {
			return errors.New("insufficient funds")
		}
		m := l.mints[mintKey]
		acc.Amount -= amount
		m.Supply -= amount
		l.accounts[account], l.mints[mintKey] = acc, m
		return nil
	}
	return fmt.Errorf("unsupported token instruction %d", data[0])
}

func (l *ledger) executeAssociated(accounts []solana.PublicKey) error {
	ata, owner, mint := accounts[1], accounts[2], accounts[3]
	want, err := spltoken.DeriveAccountAddress(mint, owner)
	if err != nil {
		return err
	}
	if !want.Equals(ata) {
		return errors.New("associated address does not match seed derivation")
	}
	if _, ok := l.accounts[ata]; ok {
		return errors.New("account already in use")
	}
	if _, ok := l.mints[mint]; !ok {
		return errors.New("invalid mint")
	}
	l.accounts[ata] = token.Account{Mint: mint, Owner: owner}
	return nil
}

func randomSignature() solana.Signature {
	var sig solana.Signature
	_, _ = rand.Read(sig[:])
	return sig
}
