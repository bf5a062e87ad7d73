package domain

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// RandomSource is the injected randomness capability used by allocation.
type RandomSource interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// TokenVault is the participant's external token holdings.
type TokenVault interface {
	// Deposit takes amount out of the participant's external holdings.
	Deposit(ctx context.Context, participantID string, amount uint64) error
	// Withdraw returns amount to the participant's external holdings.
	Withdraw(ctx context.Context, participantID string, amount uint64) error
}

type Repositories struct {
	Balances BalanceRepository
	Posts    PostRepository
	Disputes DisputeRepository
}

// Transactor runs fn as one unit of work: either every write made through repos
// is committed or none is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
