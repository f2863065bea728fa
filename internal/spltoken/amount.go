package spltoken

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrAmountTooPrecise = errors.New("amount has more fractional digits than token decimals")
	ErrAmountOverflow   = errors.New("amount does not fit into u64 raw units")
)

var maxRaw = new(big.Int).SetUint64(^uint64(0))

// ParseAmount разбирает введённое пользователем количество токенов.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

// ToRaw переводит amount в сырые единицы: amount × 10^decimals, без округления.
func ToRaw(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	scaled := amount.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s with %d decimals", ErrAmountTooPrecise, amount, decimals)
	}
	return scaled.BigInt(), nil
}

// ToRawUint64 - как ToRaw, но проверяет, что результат помещается в u64 инструкции.
func ToRawUint64(amount decimal.Decimal, decimals uint8) (uint64, error) {
	raw, err := ToRaw(amount, decimals)
	if err != nil {
		return 0, err
	}
	if raw.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	if raw.Cmp(maxRaw) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, raw)
	}
	return raw.Uint64(), nil
}

// FromRaw переводит сырые единицы в человекочитаемое количество.
func FromRaw(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}
