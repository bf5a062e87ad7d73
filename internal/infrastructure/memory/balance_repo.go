package memory

import (
	"context"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

type balanceRepo struct {
	tx *tx
}

func (r *balanceRepo) GetBalance(_ context.Context, participantID string) (*domain.Balance, error) {
	balance, ok := r.tx.store.balances[participantID]
	if !ok {
		return &domain.Balance{ParticipantID: participantID}, nil
	}
	return &balance, nil
}

func (r *balanceRepo) SaveBalance(_ context.Context, balance *domain.Balance) error {
	s := r.tx.store
	id := balance.ParticipantID
	prev, existed := s.balances[id]
	s.balances[id] = *balance
	r.tx.onRollback(func() {
		if existed {
			s.balances[id] = prev
		} else {
			delete(s.balances, id)
		}
	})
	return nil
}

func (r *balanceRepo) AppendEntry(_ context.Context, entry *domain.LedgerEntry) error {
	s := r.tx.store
	n := len(s.entries)
	e := *entry
	s.entries = append(s.entries, &e)
	r.tx.onRollback(func() {
		s.entries = s.entries[:n]
	})
	return nil
}

func (r *balanceRepo) ListEntries(_ context.Context, participantID string) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for _, entry := range r.tx.store.entries {
		if entry.From == participantID || entry.To == participantID {
			e := *entry
			entries = append(entries, &e)
		}
	}
	return entries, nil
}
