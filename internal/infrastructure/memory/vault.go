package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

// Vault stands in for participants' external token holdings when no wallet
// service is configured. A participant seen for the first time starts with
// the initial holdings.
type Vault struct {
	mu       sync.Mutex
	initial  uint64
	holdings map[string]uint64
}

type VaultOption func(*Vault)

func WithInitialHoldings(amount uint64) VaultOption {
	return func(v *Vault) { v.initial = amount }
}

func NewVault(opts ...VaultOption) *Vault {
	v := &Vault{holdings: make(map[string]uint64)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// holdingsLocked must be called with mu held.
func (v *Vault) holdingsLocked(participantID string) uint64 {
	amount, ok := v.holdings[participantID]
	if !ok {
		amount = v.initial
		v.holdings[participantID] = amount
	}
	return amount
}

// Fund credits external holdings directly, e.g. when tokens are bought.
func (v *Vault) Fund(participantID string, amount uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.holdings[participantID] = v.holdingsLocked(participantID) + amount
}

func (v *Vault) HoldingsOf(participantID string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.holdingsLocked(participantID)
}

func (v *Vault) Deposit(_ context.Context, participantID string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	held := v.holdingsLocked(participantID)
	if held < amount {
		return fmt.Errorf("%w: external holdings of %s are %d", domain.ErrInsufficientBalance, participantID, held)
	}
	v.holdings[participantID] = held - amount
	return nil
}

func (v *Vault) Withdraw(_ context.Context, participantID string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.holdings[participantID] = v.holdingsLocked(participantID) + amount
	return nil
}

var _ domain.TokenVault = (*Vault)(nil)
