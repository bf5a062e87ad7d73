package ledger

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/google/uuid"
)

// Ledger moves tokens between the available and locked sub-balances of
// participants. It works on whatever BalanceRepository it is given, normally
// one bound to the current unit of work, so a failed call leaves the store to
// be rolled back by the caller's transaction.
type Ledger struct {
	balances  domain.BalanceRepository
	clock     domain.Clock
	reference string
}

func New(balances domain.BalanceRepository, clock domain.Clock) *Ledger {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Ledger{balances: balances, clock: clock}
}

// WithReference returns a copy of the ledger that tags journal entries with ref.
func (l *Ledger) WithReference(ref string) *Ledger {
	c := *l
	c.reference = ref
	return &c
}

func (l *Ledger) BalanceOf(ctx context.Context, participantID string) (domain.Balance, error) {
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return domain.Balance{}, err
	}
	return *balance, nil
}

// Deposit refuses amounts that would take the participant past MaxAmount.
func (l *Ledger) Deposit(ctx context.Context, participantID string, amount uint64) error {
	if amount == 0 || amount > domain.MaxAmount {
		return domain.ErrInvalidAmount
	}
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return err
	}
	if balance.Total() > domain.MaxAmount-amount {
		return fmt.Errorf("%w: %s holds %d, deposit of %d exceeds %d", domain.ErrInvalidAmount, participantID, balance.Total(), amount, domain.MaxAmount)
	}
	balance.Available = mustAdd(balance.Available, amount)
	if err := l.save(ctx, balance); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryDeposit, "", participantID, amount)
}

func (l *Ledger) Withdraw(ctx context.Context, participantID string, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return err
	}
	if balance.Available < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", domain.ErrInsufficientBalance, participantID, balance.Available, amount)
	}
	balance.Available -= amount
	if err := l.save(ctx, balance); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryWithdraw, participantID, "", amount)
}

func (l *Ledger) Lock(ctx context.Context, participantID string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return err
	}
	if balance.Available < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", domain.ErrInsufficientBalance, participantID, balance.Available, amount)
	}
	balance.Available -= amount
	balance.Locked = mustAdd(balance.Locked, amount)
	if err := l.save(ctx, balance); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryLock, participantID, participantID, amount)
}

func (l *Ledger) Unlock(ctx context.Context, participantID string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return err
	}
	if balance.Locked < amount {
		return fmt.Errorf("%w: %s has %d locked, needs %d", domain.ErrInsufficientLocked, participantID, balance.Locked, amount)
	}
	balance.Locked -= amount
	balance.Available = mustAdd(balance.Available, amount)
	if err := l.save(ctx, balance); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryUnlock, participantID, participantID, amount)
}

// TransferLocked takes amount from the locked balance of from and credits the
// available balance of to.
func (l *Ledger) TransferLocked(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if from == to {
		return l.Unlock(ctx, from, amount)
	}
	src, err := l.debitLocked(ctx, from, amount)
	if err != nil {
		return err
	}
	dst, err := l.balances.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	dst.Available = mustAdd(dst.Available, amount)
	if err := l.save(ctx, src); err != nil {
		return err
	}
	if err := l.save(ctx, dst); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryTransferLocked, from, to, amount)
}

// ForfeitLocked takes amount from the locked balance of participantID and
// escrows it in the locked balance of sink, the shared reward pool. Payouts
// from the pool go through TransferLocked.
func (l *Ledger) ForfeitLocked(ctx context.Context, participantID string, amount uint64, sink string) error {
	if amount == 0 {
		return nil
	}
	if participantID == sink {
		return fmt.Errorf("forfeit into own balance: %s", participantID)
	}
	src, err := l.debitLocked(ctx, participantID, amount)
	if err != nil {
		return err
	}
	pool, err := l.balances.GetBalance(ctx, sink)
	if err != nil {
		return err
	}
	pool.Locked = mustAdd(pool.Locked, amount)
	if err := l.save(ctx, src); err != nil {
		return err
	}
	if err := l.save(ctx, pool); err != nil {
		return err
	}
	return l.journal(ctx, domain.EntryForfeitLocked, participantID, sink, amount)
}

func (l *Ledger) debitLocked(ctx context.Context, participantID string, amount uint64) (*domain.Balance, error) {
	balance, err := l.balances.GetBalance(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if balance.Locked < amount {
		return nil, fmt.Errorf("%w: %s has %d locked, needs %d", domain.ErrInsufficientLocked, participantID, balance.Locked, amount)
	}
	balance.Locked -= amount
	return balance, nil
}

func (l *Ledger) save(ctx context.Context, balance *domain.Balance) error {
	balance.UpdatedAt = l.clock.Now()
	return l.balances.SaveBalance(ctx, balance)
}

func (l *Ledger) journal(ctx context.Context, entryType domain.LedgerEntryType, from, to string, amount uint64) error {
	return l.balances.AppendEntry(ctx, &domain.LedgerEntry{
		ID:        uuid.NewString(),
		Type:      entryType,
		From:      from,
		To:        to,
		Amount:    amount,
		Reference: l.reference,
		CreatedAt: l.clock.Now(),
	})
}

// mustAdd panics on overflow, a wrapped balance would mint tokens.
func mustAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		panic(fmt.Sprintf("ledger: balance overflow adding %d to %d", b, a))
	}
	return sum
}
