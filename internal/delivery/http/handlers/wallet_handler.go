package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	walletRequest "github.com/LavaJover/shvark-moderation-service/internal/delivery/http/dto/wallet/request"
	walletResponse "github.com/LavaJover/shvark-moderation-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/google/uuid"
)

// HTTPWalletHandler is the TokenVault backed by the wallet service. A deposit
// debits the participant's wallet, a withdrawal credits it back.
type HTTPWalletHandler struct {
	Address string
	client  *http.Client
}

func NewHTTPWalletHandler(address string) (*HTTPWalletHandler, error) {
	if address == "" {
		return nil, errors.New("wallet service address is empty")
	}
	return &HTTPWalletHandler{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func (h *HTTPWalletHandler) Deposit(ctx context.Context, participantID string, amount uint64) error {
	return h.transfer(ctx, "debit", participantID, amount)
}

func (h *HTTPWalletHandler) Withdraw(ctx context.Context, participantID string, amount uint64) error {
	return h.transfer(ctx, "credit", participantID, amount)
}

func (h *HTTPWalletHandler) transfer(ctx context.Context, direction, participantID string, amount uint64) error {
	requestBodyBytes, err := json.Marshal(walletRequest.TransferRequest{
		ParticipantID: participantID,
		Amount:        amount,
		Reference:     uuid.NewString(),
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/wallets/%s", h.Address, direction), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := h.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}

	var errorResponse walletResponse.ErrorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil {
		return fmt.Errorf("wallet %s: status %d", direction, response.StatusCode)
	}
	if response.StatusCode == http.StatusPaymentRequired || response.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientBalance, errorResponse.Error)
	}
	return errors.New(errorResponse.Error)
}
