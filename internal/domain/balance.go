package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// SystemAccountPrefix namespaces accounts owned by the service. No caller may
// act under such an id.
const SystemAccountPrefix = "moderation:"

// RewardPoolAccount holds forfeited stakes between forfeiture and payout.
// Rounding remainders of a split stay locked here.
const RewardPoolAccount = SystemAccountPrefix + "reward-pool"

// MaxAmount is the largest balance or stake the stores can hold.
const MaxAmount uint64 = math.MaxInt64

// CheckParticipant rejects empty ids and ids reserved for system accounts.
func CheckParticipant(participantID string) error {
	if participantID == "" {
		return ErrInvalidParticipant
	}
	if strings.HasPrefix(participantID, SystemAccountPrefix) {
		return fmt.Errorf("%w: %s", ErrReservedParticipant, participantID)
	}
	return nil
}

type Balance struct {
	ParticipantID string
	Available     uint64
	Locked        uint64
	UpdatedAt     time.Time
}

func (b Balance) Total() uint64 {
	return b.Available + b.Locked
}

type LedgerEntryType string

const (
	EntryDeposit        LedgerEntryType = "DEPOSIT"
	EntryWithdraw       LedgerEntryType = "WITHDRAW"
	EntryLock           LedgerEntryType = "LOCK"
	EntryUnlock         LedgerEntryType = "UNLOCK"
	EntryTransferLocked LedgerEntryType = "TRANSFER_LOCKED"
	EntryForfeitLocked  LedgerEntryType = "FORFEIT_LOCKED"
)

// LedgerEntry is an append-only record of one balance movement.
type LedgerEntry struct {
	ID        string
	Type      LedgerEntryType
	From      string
	To        string
	Amount    uint64
	Reference string
	CreatedAt time.Time
}

type BalanceRepository interface {
	// GetBalance returns a zero balance for unknown participants and locks the row
	// for the rest of the unit of work where the store supports it.
	GetBalance(ctx context.Context, participantID string) (*Balance, error)
	SaveBalance(ctx context.Context, balance *Balance) error
	AppendEntry(ctx context.Context, entry *LedgerEntry) error
	ListEntries(ctx context.Context, participantID string) ([]*LedgerEntry, error)
}
