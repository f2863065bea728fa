package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestTransaction(t *testing.T, payer, extra solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewCreateAccountInstruction(1_000, 82, solana.TokenProgramID, payer, extra).Build(),
		},
		solana.Hash{9},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet(base58.Encode(key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)

	_, err = NewWallet(base58.Encode([]byte{1, 2, 3}))
	assert.Error(t, err)

	_, err = NewWallet("not base58 0OIl")
	assert.Error(t, err)
}

func TestLoadWallets(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	content := "wallets:\n" +
		"  - name: main\n" +
		"    private_key: " + base58.Encode(key) + "\n" +
		"  - name: broken\n" +
		"    private_key: xyz\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, key.PublicKey(), wallets["main"].PublicKey)
}

func TestPartialSign_KeepsExistingSignatures(t *testing.T) {
	payer := solana.NewWallet()
	mint := solana.NewWallet()
	tx := newTestTransaction(t, payer.PublicKey(), mint.PublicKey())

	require.NoError(t, PartialSign(tx, mint.PrivateKey))
	assert.Equal(t, []solana.PublicKey{payer.PublicKey()}, MissingSigners(tx))

	signer := NewKeypairSigner(&Wallet{PrivateKey: payer.PrivateKey, PublicKey: payer.PublicKey()})
	signed, err := signer.SignTransaction(context.Background(), tx)
	require.NoError(t, err)
	assert.Empty(t, MissingSigners(signed))
	assert.NoError(t, signed.VerifySignatures())
}

func TestPartialSign_UnknownKey(t *testing.T) {
	payer := solana.NewWallet()
	tx := newTestTransaction(t, payer.PublicKey(), solana.NewWallet().PublicKey())

	err := PartialSign(tx, solana.NewWallet().PrivateKey)
	assert.ErrorIs(t, err, ErrNotASigner)
}

// countingSigner считает обращения к внутреннему подписанту.
type countingSigner struct {
	Signer
	signs int
}

func (c *countingSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	c.signs++
	return c.Signer.SignTransaction(ctx, tx)
}

func TestApprovalSigner(t *testing.T) {
	payer := solana.NewWallet()
	inner := &countingSigner{Signer: NewKeypairSigner(&Wallet{PrivateKey: payer.PrivateKey, PublicKey: payer.PublicKey()})}

	var requests []ApprovalRequest
	approve := true
	approver := ApproverFunc(func(_ context.Context, req ApprovalRequest) (bool, error) {
		requests = append(requests, req)
		return approve, nil
	})
	signer := NewApprovalSigner(inner, approver, zaptest.NewLogger(t))

	account, err := signer.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payer.PublicKey(), account)

	approve = false
	tx := newTestTransaction(t, payer.PublicKey(), solana.NewWallet().PublicKey())
	_, err = signer.SignTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, 0, inner.signs)

	require.Len(t, requests, 2)
	assert.Equal(t, RequestConnect, requests[0].Kind)
	assert.Equal(t, RequestSign, requests[1].Kind)
	assert.Equal(t, 1, requests[1].Instructions)
	assert.Equal(t, []solana.PublicKey{solana.SystemProgramID}, requests[1].Programs)
	assert.Contains(t, requests[1].Summary(), "System")
}
