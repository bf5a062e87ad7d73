package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

type postRecord struct {
	post      domain.Post
	reporters map[string]struct{}
}

// Store keeps balances, posts and disputes in process memory. Units of work
// are serialised by mu; every write inside a unit registers an undo step so a
// failed unit is rolled back in reverse order.
type Store struct {
	mu sync.Mutex

	balances map[string]domain.Balance
	entries  []*domain.LedgerEntry

	posts      map[uint64]*postRecord
	lastPostID uint64

	disputes     map[string]*domain.Dispute
	disputeOrder []string
	openByPost   map[uint64]string
}

func NewStore() *Store {
	return &Store{
		balances:   make(map[string]domain.Balance),
		posts:      make(map[uint64]*postRecord),
		disputes:   make(map[string]*domain.Dispute),
		openByPost: make(map[uint64]string),
	}
}

type tx struct {
	store *Store
	undo  []func()
}

func (t *tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// WithinTx must not be called again from inside fn; the store mutex is not reentrant.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s}
	defer func() {
		if r := recover(); r != nil {
			t.rollback()
			panic(r)
		}
	}()

	err = fn(ctx, domain.Repositories{
		Balances: &balanceRepo{tx: t},
		Posts:    &postRepo{tx: t},
		Disputes: &disputeRepo{tx: t},
	})
	if err != nil {
		t.rollback()
		return err
	}
	return nil
}

var _ domain.Transactor = (*Store)(nil)
