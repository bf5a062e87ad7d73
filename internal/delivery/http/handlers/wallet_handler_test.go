package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	walletRequest "github.com/LavaJover/shvark-moderation-service/internal/delivery/http/dto/wallet/request"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPWalletHandler(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		var req walletRequest.TransferRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.ParticipantID)
		assert.NotEmpty(t, req.Reference)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case req.Amount > 1000:
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"success":false,"error":"not enough tokens"}`))
		case req.Amount == 13:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"ledger offline"}`))
		default:
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	}))
	defer server.Close()

	wallet, err := NewHTTPWalletHandler(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, wallet.Deposit(ctx, "alice", 100))
	require.NoError(t, wallet.Withdraw(ctx, "alice", 100))
	assert.Equal(t, []string{"/wallets/debit", "/wallets/credit"}, paths)

	err = wallet.Deposit(ctx, "alice", 5000)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	err = wallet.Deposit(ctx, "alice", 13)
	require.EqualError(t, err, "ledger offline")
}

func TestNewHTTPWalletHandler_RequiresAddress(t *testing.T) {
	_, err := NewHTTPWalletHandler("")
	require.Error(t, err)
}
