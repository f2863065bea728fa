// ==============================================
// File: internal/spltoken/instructions.go
// ==============================================
package spltoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// MintSize - размер аккаунта mint в программе SPL Token.
const MintSize = 82

// DeriveAccountAddress возвращает адрес ассоциированного токен-аккаунта (ATA)
// для пары (mint, owner). Чистая функция, сеть не используется.
func DeriveAccountAddress(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return ata, nil
}

// NewCreateMintAccountInstruction выделяет аккаунт размера MintSize по адресу mint,
// оплачивая rent-exempt минимум с payer. Владелец аккаунта - программа SPL Token.
func NewCreateMintAccountInstruction(payer, mint solana.PublicKey, lamports uint64) solana.Instruction {
	return system.NewCreateAccountInstruction(
		lamports,
		MintSize,
		solana.TokenProgramID,
		payer,
		mint,
	).Build()
}

// NewInitializeMintInstruction инициализирует mint. freezeAuthority может быть nil.
func NewInitializeMintInstruction(
	mint solana.PublicKey,
	decimals uint8,
	mintAuthority solana.PublicKey,
	freezeAuthority *solana.PublicKey,
) solana.Instruction {
	builder := token.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(mintAuthority).
		SetMintAccount(mint).
		SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey)
	if freezeAuthority != nil {
		builder.SetFreezeAuthority(*freezeAuthority)
	}
	return builder.Build()
}

// NewCreateAssociatedAccountInstruction создаёт ATA для (owner, mint), оплачивая его с payer.
// Инструкция не идемпотентна: если аккаунт уже существует, программа вернёт ошибку.
func NewCreateAssociatedAccountInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, err := DeriveAccountAddress(mint, owner)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	return associatedtokenaccount.NewCreateInstruction(payer, owner, mint).Build(), ata, nil
}

// NewMintToInstruction чеканит amount сырых единиц на destination.
func NewMintToInstruction(mint, destination, authority solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewMintToInstruction(amount, mint, destination, authority, nil).Build()
}

// NewTransferInstruction переводит amount сырых единиц между токен-аккаунтами.
func NewTransferInstruction(source, destination, owner solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewTransferInstruction(amount, source, destination, owner, nil).Build()
}

// NewBurnInstruction сжигает amount сырых единиц с account.
func NewBurnInstruction(account, mint, owner solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewBurnInstruction(amount, account, mint, owner, nil).Build()
}
