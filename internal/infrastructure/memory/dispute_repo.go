package memory

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

type disputeRepo struct {
	tx *tx
}

func (r *disputeRepo) CreateDispute(_ context.Context, dispute *domain.Dispute) error {
	s := r.tx.store
	if _, ok := s.openByPost[dispute.PostID]; ok {
		return domain.ErrDisputeAlreadyOpen
	}
	stored := dispute.Clone()
	if stored.Votes == nil {
		stored.Votes = make(map[string]domain.VoteChoice)
	}
	s.disputes[stored.ID] = stored
	s.disputeOrder = append(s.disputeOrder, stored.ID)
	s.openByPost[stored.PostID] = stored.ID
	n := len(s.disputeOrder) - 1
	r.tx.onRollback(func() {
		delete(s.openByPost, stored.PostID)
		s.disputeOrder = s.disputeOrder[:n]
		delete(s.disputes, stored.ID)
	})
	return nil
}

func (r *disputeRepo) GetOpenDisputeByPostID(_ context.Context, postID uint64) (*domain.Dispute, error) {
	s := r.tx.store
	id, ok := s.openByPost[postID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	return s.disputes[id].Clone(), nil
}

func (r *disputeRepo) GetLatestDisputeByPostID(ctx context.Context, postID uint64) (*domain.Dispute, error) {
	if dispute, err := r.GetOpenDisputeByPostID(ctx, postID); err == nil {
		return dispute, nil
	}
	s := r.tx.store
	for i := len(s.disputeOrder) - 1; i >= 0; i-- {
		dispute := s.disputes[s.disputeOrder[i]]
		if dispute.PostID == postID {
			return dispute.Clone(), nil
		}
	}
	return nil, domain.ErrDisputeNotFound
}

func (r *disputeRepo) open(disputeID string) (*domain.Dispute, error) {
	dispute, ok := r.tx.store.disputes[disputeID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	if !dispute.IsOpen() {
		return nil, domain.ErrDisputeNotOpen
	}
	return dispute, nil
}

func (r *disputeRepo) AddVoter(_ context.Context, disputeID, participantID string) error {
	dispute, err := r.open(disputeID)
	if err != nil {
		return err
	}
	if dispute.IsAllocated(participantID) {
		return domain.ErrAlreadyAllocated
	}
	dispute.Voters = append(dispute.Voters, participantID)
	n := len(dispute.Voters) - 1
	r.tx.onRollback(func() {
		dispute.Voters = dispute.Voters[:n]
	})
	return nil
}

func (r *disputeRepo) RecordVote(_ context.Context, disputeID, participantID string, choice domain.VoteChoice) error {
	dispute, err := r.open(disputeID)
	if err != nil {
		return err
	}
	if !dispute.IsAllocated(participantID) {
		return domain.ErrNotAllocated
	}
	if dispute.HasVoted(participantID) {
		return domain.ErrAlreadyVoted
	}
	dispute.Votes[participantID] = choice
	r.tx.onRollback(func() {
		delete(dispute.Votes, participantID)
	})
	return nil
}

func (r *disputeRepo) ResolveDispute(_ context.Context, disputeID string, outcome domain.DisputeOutcome, resolvedAt time.Time) error {
	dispute, err := r.open(disputeID)
	if err != nil {
		return err
	}
	s := r.tx.store
	prev := *dispute
	dispute.Status = domain.DisputeResolved
	dispute.Outcome = outcome
	dispute.ResolvedAt = resolvedAt
	delete(s.openByPost, dispute.PostID)
	r.tx.onRollback(func() {
		dispute.Status = prev.Status
		dispute.Outcome = prev.Outcome
		dispute.ResolvedAt = prev.ResolvedAt
		s.openByPost[dispute.PostID] = dispute.ID
	})
	return nil
}

func (r *disputeRepo) FindOpenDisputes(_ context.Context) ([]*domain.Dispute, error) {
	s := r.tx.store
	var disputes []*domain.Dispute
	for _, id := range s.disputeOrder {
		if dispute := s.disputes[id]; dispute.IsOpen() {
			disputes = append(disputes, dispute.Clone())
		}
	}
	return disputes, nil
}
