// internal/workflow/errors.go
package workflow

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PreconditionError - не выполнен обязательный предыдущий шаг (кошелёк, токен, аккаунт).
// Сеть при этом не затрагивается.
type PreconditionError struct {
	Op      string
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Missing)
}

// ValidationError - некорректный пользовательский ввод.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SignerRejectedError - пользователь отклонил запрос во внешнем подписанте.
type SignerRejectedError struct {
	Op  string
	Err error
}

func (e *SignerRejectedError) Error() string {
	return fmt.Sprintf("%s: signer rejected the request: %v", e.Op, e.Err)
}

func (e *SignerRejectedError) Unwrap() error { return e.Err }

// SubmissionError - ошибка RPC-клиента или транзакция отвергнута сетью.
type SubmissionError struct {
	Op        string
	Signature solana.Signature
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.Signature.IsZero() {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (tx %s): %v", e.Op, e.Signature, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationTimeoutError - транзакция отправлена, но не подтверждена вовремя.
// Она всё ещё может попасть в блок.
type ConfirmationTimeoutError struct {
	Op        string
	Signature solana.Signature
	Err       error
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("%s: transaction %s was not confirmed in time: %v", e.Op, e.Signature, e.Err)
}

func (e *ConfirmationTimeoutError) Unwrap() error { return e.Err }

// NotFoundError - запрошенный аккаунт или mint отсутствует в сети.
type NotFoundError struct {
	What    string
	Address solana.PublicKey
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.What, e.Address)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Describe превращает ошибку операции в строку для показа пользователю.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		precondition *PreconditionError
		validation   *ValidationError
		rejected     *SignerRejectedError
		submission   *SubmissionError
		timeout      *ConfirmationTimeoutError
		notFound     *NotFoundError
	)
	switch {
	case errors.As(err, &precondition):
		return "Precondition failed: " + precondition.Missing
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid %s: %v", validation.Field, validation.Err)
	case errors.As(err, &rejected):
		return "Request declined in wallet"
	case errors.As(err, &timeout):
		return fmt.Sprintf("Transaction %s not confirmed in time, check it later", timeout.Signature)
	case errors.As(err, &submission):
		if !submission.Signature.IsZero() {
			return fmt.Sprintf("Transaction %s failed: %v", submission.Signature, submission.Err)
		}
		return "Transaction failed: " + submission.Err.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	default:
		return "Error: " + err.Error()
	}
}
