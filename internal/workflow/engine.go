// internal/workflow/engine.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain"
	"github.com/Chizober/Solana-Token-Dashboard/internal/spltoken"
	"github.com/Chizober/Solana-Token-Dashboard/internal/wallet"
)

// Названия операций для логов и ошибок.
const (
	OpConnect       = "connect"
	OpCreateToken   = "create-token"
	OpCreateAccount = "create-account"
	OpMint          = "mint"
	OpTransfer      = "transfer"
	OpBurn          = "burn"
	OpTokenInfo     = "token-info"
	OpUseToken      = "use-token"
)

const lamportsDecimals = 9

// AirdropOptions управляет пополнением кошелька при подключении (только тестовые сети).
type AirdropOptions struct {
	Enabled bool
	// Threshold - порог и одновременно размер airdrop в лампортах.
	Threshold uint64
}

// Options - настройки движка.
type Options struct {
	Commitment rpc.CommitmentType
	Airdrop    AirdropOptions
}

// Engine выполняет операции над сессиями: собирает инструкции, подписывает,
// отправляет транзакцию и дожидается подтверждения.
type Engine struct {
	client     blockchain.Client
	logger     *zap.Logger
	commitment rpc.CommitmentType
	airdrop    AirdropOptions
}

// NewEngine создаёт движок поверх RPC-клиента.
func NewEngine(client blockchain.Client, logger *zap.Logger, opts Options) *Engine {
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentConfirmed
	}
	return &Engine{
		client:     client,
		logger:     logger.Named("workflow"),
		commitment: opts.Commitment,
		airdrop:    opts.Airdrop,
	}
}

// begin захватывает сессию на время операции.
func (e *Engine) begin(s *Session, op string) (*zap.Logger, func()) {
	s.run.Lock()
	log := e.logger.With(
		zap.String("op", op),
		zap.String("session", s.ID),
		zap.String("run_id", uuid.NewString()),
	)
	log.Debug("Operation started")
	return log, s.run.Unlock
}

// Connect подключает кошелёк через подписанта и при необходимости запрашивает airdrop.
// Ошибки airdrop не отменяют подключение и попадают в Warnings.
func (e *Engine) Connect(ctx context.Context, s *Session) (*ConnectResult, error) {
	log, done := e.begin(s, OpConnect)
	defer done()

	account, err := s.signer.Connect(ctx)
	if err != nil {
		return nil, e.fail(log, signerError(OpConnect, err))
	}
	s.setWallet(account)
	log.Info("Wallet connected", zap.String("wallet", account.String()))

	result := &ConnectResult{Wallet: account}
	lamports, err := e.client.GetBalance(ctx, account, e.commitment)
	if err != nil {
		log.Warn("Failed to get balance", zap.Error(err))
		result.Warnings = append(result.Warnings, "balance unavailable: "+err.Error())
		return result, nil
	}
	result.Balance = spltoken.FromRaw(lamports, lamportsDecimals)

	if !e.airdrop.Enabled || lamports >= e.airdrop.Threshold {
		return result, nil
	}

	log.Info("Balance below threshold, requesting airdrop",
		zap.Uint64("balance", lamports),
		zap.Uint64("airdrop", e.airdrop.Threshold))
	sig, err := e.client.RequestAirdrop(ctx, account, e.airdrop.Threshold, e.commitment)
	if err == nil {
		err = e.client.WaitForTransactionConfirmation(ctx, sig, e.commitment)
	}
	if err != nil {
		log.Warn("Airdrop failed", zap.Error(err))
		result.Warnings = append(result.Warnings, "airdrop failed: "+err.Error())
		return result, nil
	}
	result.Airdropped = true
	result.AirdropSignature = sig

	if lamports, err = e.client.GetBalance(ctx, account, e.commitment); err != nil {
		result.Warnings = append(result.Warnings, "balance unavailable: "+err.Error())
		return result, nil
	}
	result.Balance = spltoken.FromRaw(lamports, lamportsDecimals)
	return result, nil
}

// ParseDecimals разбирает количество знаков токена. Пустая строка - DefaultDecimals.
func ParseDecimals(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDecimals, nil
	}
	d, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, &ValidationError{Field: "decimals", Value: s, Err: errors.New("must be an integer from 0 to 255")}
	}
	return uint8(d), nil
}

// CreateToken создаёт новый mint с authority = подключённый кошелёк и без freeze authority.
// Новый mint становится текущим, персональный аккаунт сбрасывается.
func (e *Engine) CreateToken(ctx context.Context, s *Session, decimals uint8) (*CreateTokenResult, error) {
	log, done := e.begin(s, OpCreateToken)
	defer done()

	snap := s.Snapshot()
	if !snap.Connected() {
		return nil, e.fail(log, &PreconditionError{Op: OpCreateToken, Missing: "connect a wallet first"})
	}

	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, e.fail(log, fmt.Errorf("generate mint keypair: %w", err))
	}
	mint := mintKey.PublicKey()

	lamports, err := e.client.GetMinimumBalanceForRentExemption(ctx, spltoken.MintSize, e.commitment)
	if err != nil {
		return nil, e.fail(log, &SubmissionError{Op: OpCreateToken, Err: fmt.Errorf("rent exemption: %w", err)})
	}

	instructions := []solana.Instruction{
		spltoken.NewCreateMintAccountInstruction(snap.Wallet, mint, lamports),
		spltoken.NewInitializeMintInstruction(mint, decimals, snap.Wallet, nil),
	}
	sig, err := e.submit(ctx, log, s, OpCreateToken, snap.Wallet, instructions, mintKey)
	if err != nil {
		return nil, e.fail(log, err)
	}

	s.setMint(mint, decimals)
	log.Info("Token created",
		zap.String("mint", mint.String()),
		zap.Uint8("decimals", decimals),
		zap.String("signature", sig.String()))

	info, err := e.readMint(ctx, OpCreateToken, mint)
	if err != nil {
		return nil, e.fail(log, err)
	}
	return &CreateTokenResult{Signature: sig, Info: info}, nil
}

// CreateAccount создаёт ATA кошелька для текущего mint. Если аккаунт уже есть,
// транзакция не отправляется.
func (e *Engine) CreateAccount(ctx context.Context, s *Session) (*AccountResult, error) {
	log, done := e.begin(s, OpCreateAccount)
	defer done()

	snap := s.Snapshot()
	if err := requireToken(OpCreateAccount, snap); err != nil {
		return nil, e.fail(log, err)
	}

	ata, err := spltoken.DeriveAccountAddress(snap.Mint, snap.Wallet)
	if err != nil {
		return nil, e.fail(log, err)
	}
	exists, err := e.accountExists(ctx, OpCreateAccount, ata)
	if err != nil {
		return nil, e.fail(log, err)
	}
	if exists {
		s.setAccount(ata)
		log.Info("Token account already exists", zap.String("account", ata.String()))
		return &AccountResult{Account: ata}, nil
	}

	ix, _, err := spltoken.NewCreateAssociatedAccountInstruction(snap.Wallet, snap.Wallet, snap.Mint)
	if err != nil {
		return nil, e.fail(log, err)
	}
	sig, err := e.submit(ctx, log, s, OpCreateAccount, snap.Wallet, []solana.Instruction{ix})
	if err != nil {
		return nil, e.fail(log, err)
	}

	s.setAccount(ata)
	log.Info("Token account created", zap.String("account", ata.String()), zap.String("signature", sig.String()))
	return &AccountResult{Account: ata, Created: true, Signature: sig}, nil
}

// Mint чеканит amount токенов на персональный аккаунт.
func (e *Engine) Mint(ctx context.Context, s *Session, amount string) (*BalanceResult, error) {
	log, done := e.begin(s, OpMint)
	defer done()

	snap := s.Snapshot()
	if err := requireAccount(OpMint, snap); err != nil {
		return nil, e.fail(log, err)
	}
	value, raw, err := parseRawAmount(amount, snap.Decimals)
	if err != nil {
		return nil, e.fail(log, err)
	}

	ix := spltoken.NewMintToInstruction(snap.Mint, snap.Account, snap.Wallet, raw)
	sig, err := e.submit(ctx, log, s, OpMint, snap.Wallet, []solana.Instruction{ix})
	if err != nil {
		return nil, e.fail(log, err)
	}

	balance, err := e.readBalance(ctx, OpMint, snap.Account)
	if err != nil {
		return nil, e.fail(log, err)
	}
	log.Info("Tokens minted", zap.Uint64("raw_amount", raw), zap.Uint64("raw_balance", balance))
	return &BalanceResult{
		Signature:  sig,
		Account:    snap.Account,
		Amount:     value,
		RawAmount:  raw,
		Balance:    spltoken.FromRaw(balance, snap.Decimals),
		RawBalance: balance,
		action:     "Minted",
	}, nil
}

// Transfer переводит amount токенов на кошелёк destination. Если у получателя
// нет ATA, его создание добавляется в ту же транзакцию первой инструкцией.
func (e *Engine) Transfer(ctx context.Context, s *Session, destination, amount string) (*TransferResult, error) {
	log, done := e.begin(s, OpTransfer)
	defer done()

	snap := s.Snapshot()
	if err := requireToken(OpTransfer, snap); err != nil {
		return nil, e.fail(log, err)
	}
	receiver, err := spltoken.ParseWalletAddress(destination)
	if err != nil {
		return nil, e.fail(log, &ValidationError{Field: "destination", Value: destination, Err: err})
	}
	value, raw, err := parseRawAmount(amount, snap.Decimals)
	if err != nil {
		return nil, e.fail(log, err)
	}

	source, err := spltoken.DeriveAccountAddress(snap.Mint, snap.Wallet)
	if err != nil {
		return nil, e.fail(log, err)
	}
	target, err := spltoken.DeriveAccountAddress(snap.Mint, receiver)
	if err != nil {
		return nil, e.fail(log, err)
	}
	exists, err := e.accountExists(ctx, OpTransfer, target)
	if err != nil {
		return nil, e.fail(log, err)
	}

	var instructions []solana.Instruction
	if !exists {
		ix, _, err := spltoken.NewCreateAssociatedAccountInstruction(snap.Wallet, receiver, snap.Mint)
		if err != nil {
			return nil, e.fail(log, err)
		}
		instructions = append(instructions, ix)
	}
	instructions = append(instructions, spltoken.NewTransferInstruction(source, target, snap.Wallet, raw))

	sig, err := e.submit(ctx, log, s, OpTransfer, snap.Wallet, instructions)
	if err != nil {
		return nil, e.fail(log, err)
	}

	balance, err := e.readBalance(ctx, OpTransfer, source)
	if err != nil {
		return nil, e.fail(log, err)
	}
	log.Info("Tokens transferred",
		zap.String("destination", receiver.String()),
		zap.Bool("created_account", !exists),
		zap.Uint64("raw_amount", raw))
	return &TransferResult{
		Signature:          sig,
		Destination:        receiver,
		DestinationAccount: target,
		CreatedAccount:     !exists,
		Amount:             value,
		RawAmount:          raw,
		Balance:            spltoken.FromRaw(balance, snap.Decimals),
		RawBalance:         balance,
	}, nil
}

// Burn сжигает amount токенов с персонального аккаунта.
// Превышение баланса отвергается сетью, локально не проверяется.
func (e *Engine) Burn(ctx context.Context, s *Session, amount string) (*BalanceResult, error) {
	log, done := e.begin(s, OpBurn)
	defer done()

	snap := s.Snapshot()
	if err := requireAccount(OpBurn, snap); err != nil {
		return nil, e.fail(log, err)
	}
	value, raw, err := parseRawAmount(amount, snap.Decimals)
	if err != nil {
		return nil, e.fail(log, err)
	}

	ix := spltoken.NewBurnInstruction(snap.Account, snap.Mint, snap.Wallet, raw)
	sig, err := e.submit(ctx, log, s, OpBurn, snap.Wallet, []solana.Instruction{ix})
	if err != nil {
		return nil, e.fail(log, err)
	}

	balance, err := e.readBalance(ctx, OpBurn, snap.Account)
	if err != nil {
		return nil, e.fail(log, err)
	}
	log.Info("Tokens burned", zap.Uint64("raw_amount", raw), zap.Uint64("raw_balance", balance))
	return &BalanceResult{
		Signature:  sig,
		Account:    snap.Account,
		Amount:     value,
		RawAmount:  raw,
		Balance:    spltoken.FromRaw(balance, snap.Decimals),
		RawBalance: balance,
		action:     "Burned",
	}, nil
}

// TokenInfo перечитывает состояние текущего mint из сети.
func (e *Engine) TokenInfo(ctx context.Context, s *Session) (*TokenInfo, error) {
	log, done := e.begin(s, OpTokenInfo)
	defer done()

	snap := s.Snapshot()
	if !snap.HasMint() {
		return nil, e.fail(log, &PreconditionError{Op: OpTokenInfo, Missing: "create a token first"})
	}
	info, err := e.readMint(ctx, OpTokenInfo, snap.Mint)
	if err != nil {
		return nil, e.fail(log, err)
	}
	return info, nil
}

// UseToken делает существующий mint текущим. Decimals всегда берутся из сети;
// если decimals задан и не совпадает с mint, сессия не меняется.
func (e *Engine) UseToken(ctx context.Context, s *Session, mint solana.PublicKey, decimals *uint8) (*TokenInfo, error) {
	log, done := e.begin(s, OpUseToken)
	defer done()

	info, err := e.readMint(ctx, OpUseToken, mint)
	if err != nil {
		return nil, e.fail(log, err)
	}
	if decimals != nil && *decimals != info.Decimals {
		return nil, e.fail(log, &ValidationError{
			Field: "decimals",
			Value: strconv.Itoa(int(*decimals)),
			Err:   fmt.Errorf("mint %s has %d decimals", mint, info.Decimals),
		})
	}
	s.setMint(mint, info.Decimals)
	log.Info("Token selected", zap.String("mint", mint.String()), zap.Uint8("decimals", info.Decimals))
	return info, nil
}

// Status параллельно читает баланс SOL, mint и баланс персонального аккаунта.
// Сессию не блокирует. Отсутствующие в сети аккаунты просто пропускаются.
func (e *Engine) Status(ctx context.Context, s *Session) (*Status, error) {
	snap := s.Snapshot()
	status := &Status{Session: snap}
	if !snap.Connected() {
		return status, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lamports, err := e.client.GetBalance(gctx, snap.Wallet, e.commitment)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		balance := spltoken.FromRaw(lamports, lamportsDecimals)
		status.SOLBalance = &balance
		return nil
	})
	if snap.HasMint() {
		g.Go(func() error {
			info, err := e.readMint(gctx, OpTokenInfo, snap.Mint)
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			status.Token = info
			return err
		})
	}
	if snap.HasAccount() {
		g.Go(func() error {
			raw, err := e.readBalance(gctx, OpTokenInfo, snap.Account)
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			if err != nil {
				return err
			}
			balance := spltoken.FromRaw(raw, snap.Decimals)
			status.TokenBalance = &balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return status, nil
}

// submit оформляет транзакцию (плательщик payer, свежий blockhash), подписывает её
// сначала локальными ключами, затем подписантом сессии, отправляет и ждёт подтверждения.
func (e *Engine) submit(
	ctx context.Context,
	log *zap.Logger,
	s *Session,
	op string,
	payer solana.PublicKey,
	instructions []solana.Instruction,
	localSigners ...solana.PrivateKey,
) (solana.Signature, error) {
	blockhash, err := e.client.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		return solana.Signature{}, &SubmissionError{Op: op, Err: fmt.Errorf("get latest blockhash: %w", err)}
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%s: build transaction: %w", op, err)
	}
	if len(localSigners) > 0 {
		if err := wallet.PartialSign(tx, localSigners...); err != nil {
			return solana.Signature{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	signed, err := s.signer.SignTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, signerError(op, err)
	}
	if missing := wallet.MissingSigners(signed); len(missing) > 0 {
		return solana.Signature{}, fmt.Errorf("%s: transaction is missing signatures of %v", op, missing)
	}

	log.Debug("Sending transaction", zap.Int("instructions", len(instructions)))
	sig, err := e.client.SendTransaction(ctx, signed)
	if err != nil {
		return solana.Signature{}, &SubmissionError{Op: op, Err: err}
	}

	if err := e.client.WaitForTransactionConfirmation(ctx, sig, e.commitment); err != nil {
		var failed *blockchain.TransactionFailedError
		switch {
		case errors.Is(err, blockchain.ErrConfirmationTimeout):
			return sig, &ConfirmationTimeoutError{Op: op, Signature: sig, Err: err}
		case errors.As(err, &failed):
			return sig, &SubmissionError{Op: op, Signature: sig, Err: err}
		default:
			return sig, &SubmissionError{Op: op, Signature: sig, Err: fmt.Errorf("await confirmation: %w", err)}
		}
	}
	log.Debug("Transaction confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

func (e *Engine) accountExists(ctx context.Context, op string, account solana.PublicKey) (bool, error) {
	_, err := e.client.GetAccountInfo(ctx, account)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, blockchain.ErrAccountNotFound):
		return false, nil
	default:
		return false, &SubmissionError{Op: op, Err: fmt.Errorf("get account %s: %w", account, err)}
	}
}

func (e *Engine) readMint(ctx context.Context, op string, mint solana.PublicKey) (*TokenInfo, error) {
	m, err := e.client.GetMint(ctx, mint)
	if errors.Is(err, blockchain.ErrAccountNotFound) {
		return nil, &NotFoundError{What: "mint", Address: mint, Err: err}
	}
	if err != nil {
		return nil, &SubmissionError{Op: op, Err: fmt.Errorf("get mint %s: %w", mint, err)}
	}
	return &TokenInfo{
		Mint:            mint,
		Decimals:        m.Decimals,
		Supply:          m.Supply,
		MintAuthority:   m.MintAuthority,
		FreezeAuthority: m.FreezeAuthority,
	}, nil
}

func (e *Engine) readBalance(ctx context.Context, op string, account solana.PublicKey) (uint64, error) {
	acc, err := e.client.GetTokenAccount(ctx, account)
	if errors.Is(err, blockchain.ErrAccountNotFound) {
		return 0, &NotFoundError{What: "token account", Address: account, Err: err}
	}
	if err != nil {
		return 0, &SubmissionError{Op: op, Err: fmt.Errorf("get token account %s: %w", account, err)}
	}
	return acc.Amount, nil
}

func (e *Engine) fail(log *zap.Logger, err error) error {
	var (
		precondition *PreconditionError
		validation   *ValidationError
	)
	if errors.As(err, &precondition) || errors.As(err, &validation) {
		log.Warn("Operation rejected", zap.Error(err))
	} else {
		log.Error("Operation failed", zap.Error(err))
	}
	return err
}

func requireToken(op string, snap Snapshot) error {
	if !snap.Connected() {
		return &PreconditionError{Op: op, Missing: "connect a wallet first"}
	}
	if !snap.HasMint() {
		return &PreconditionError{Op: op, Missing: "create a token first"}
	}
	return nil
}

func requireAccount(op string, snap Snapshot) error {
	if err := requireToken(op, snap); err != nil {
		return err
	}
	if !snap.HasAccount() {
		return &PreconditionError{Op: op, Missing: "create a token account first"}
	}
	return nil
}

func parseRawAmount(s string, decimals uint8) (decimal.Decimal, uint64, error) {
	value, err := spltoken.ParseAmount(s)
	if err != nil {
		return decimal.Zero, 0, &ValidationError{Field: "amount", Value: s, Err: err}
	}
	raw, err := spltoken.ToRawUint64(value, decimals)
	if err != nil {
		return decimal.Zero, 0, &ValidationError{Field: "amount", Value: s, Err: err}
	}
	return value, raw, nil
}

func signerError(op string, err error) error {
	if errors.Is(err, wallet.ErrRejected) {
		return &SignerRejectedError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: signer: %w", op, err)
}
