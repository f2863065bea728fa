package solbc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Chizober/Solana-Token-Dashboard/internal/blockchain"
)

// rpcServer отвечает на JSON-RPC запросы через handler по имени метода.
func rpcServer(t *testing.T, handler func(method string) interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{} `json:"id"`
			Method string      `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handler(req.Method),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReached(t *testing.T) {
	tests := []struct {
		name       string
		status     rpc.ConfirmationStatusType
		commitment rpc.CommitmentType
		want       bool
	}{
		{"processed satisfies processed", rpc.ConfirmationStatusProcessed, rpc.CommitmentProcessed, true},
		{"processed does not satisfy confirmed", rpc.ConfirmationStatusProcessed, rpc.CommitmentConfirmed, false},
		{"confirmed satisfies confirmed", rpc.ConfirmationStatusConfirmed, rpc.CommitmentConfirmed, true},
		{"finalized satisfies confirmed", rpc.ConfirmationStatusFinalized, rpc.CommitmentConfirmed, true},
		{"confirmed does not satisfy finalized", rpc.ConfirmationStatusConfirmed, rpc.CommitmentFinalized, false},
		{"finalized satisfies finalized", rpc.ConfirmationStatusFinalized, rpc.CommitmentFinalized, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reached(tt.status, tt.commitment))
		})
	}
}

func TestIsAccountNotFoundError(t *testing.T) {
	assert.False(t, IsAccountNotFoundError(nil))
	assert.True(t, IsAccountNotFoundError(rpc.ErrNotFound))
	assert.True(t, IsAccountNotFoundError(blockchain.ErrAccountNotFound))
	assert.False(t, IsAccountNotFoundError(errors.New("connection refused")))
}

func TestClient_GetBalance(t *testing.T) {
	srv := rpcServer(t, func(method string) interface{} {
		require.Equal(t, "getBalance", method)
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   2_000_000_000,
		}
	})

	client := NewClient(srv.URL, zaptest.NewLogger(t))
	balance, err := client.GetBalance(context.Background(), solana.NewWallet().PublicKey(), rpc.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), balance)
}

func TestClient_GetAccountInfo_Missing(t *testing.T) {
	srv := rpcServer(t, func(method string) interface{} {
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   nil,
		}
	})

	client := NewClient(srv.URL, zaptest.NewLogger(t))
	_, err := client.GetAccountInfo(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, blockchain.ErrAccountNotFound)
}

func TestClient_WaitForTransactionConfirmation(t *testing.T) {
	var calls int32
	srv := rpcServer(t, func(method string) interface{} {
		n := atomic.AddInt32(&calls, 1)
		status := "processed"
		if n >= 3 {
			status = "confirmed"
		}
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value": []interface{}{
				map[string]interface{}{
					"slot":               10,
					"confirmations":      nil,
					"err":                nil,
					"confirmationStatus": status,
				},
			},
		}
	})

	client := NewClient(srv.URL, zaptest.NewLogger(t), WithPollInterval(10*time.Millisecond))
	err := client.WaitForTransactionConfirmation(context.Background(), solana.Signature{1}, rpc.CommitmentConfirmed)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestClient_WaitForTransactionConfirmation_Timeout(t *testing.T) {
	srv := rpcServer(t, func(method string) interface{} {
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value":   []interface{}{nil},
		}
	})

	client := NewClient(srv.URL, zaptest.NewLogger(t),
		WithPollInterval(10*time.Millisecond),
		WithConfirmTimeout(80*time.Millisecond))
	err := client.WaitForTransactionConfirmation(context.Background(), solana.Signature{2}, rpc.CommitmentConfirmed)
	assert.ErrorIs(t, err, blockchain.ErrConfirmationTimeout)
}

func TestClient_WaitForTransactionConfirmation_Failed(t *testing.T) {
	srv := rpcServer(t, func(method string) interface{} {
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 10},
			"value": []interface{}{
				map[string]interface{}{
					"slot":               10,
					"err":                map[string]interface{}{"InstructionError": []interface{}{0, "InsufficientFunds"}},
					"confirmationStatus": "confirmed",
				},
			},
		}
	})

	client := NewClient(srv.URL, zaptest.NewLogger(t), WithPollInterval(10*time.Millisecond))
	err := client.WaitForTransactionConfirmation(context.Background(), solana.Signature{3}, rpc.CommitmentConfirmed)

	var failed *blockchain.TransactionFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, solana.Signature{3}, failed.Signature)
}
