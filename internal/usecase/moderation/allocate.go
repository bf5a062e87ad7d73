package moderation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
)

type defaultRandom struct{}

func (defaultRandom) IntN(n int) int {
	return rand.IntN(n)
}

func checkEligible(d *domain.Dispute, voterID string) error {
	if err := domain.CheckParticipant(voterID); err != nil {
		return err
	}
	if voterID == d.Disputant {
		return domain.ErrSelfAllocation
	}
	if d.IsAllocated(voterID) {
		return domain.ErrAlreadyAllocated
	}
	return nil
}

// allocate binds voterID to d and locks the dispute's vote stake. d is updated in place.
func (uc *DefaultModerationUsecase) allocate(ctx context.Context, repos domain.Repositories, d *domain.Dispute, voterID string) error {
	if err := checkEligible(d, voterID); err != nil {
		return err
	}
	l := ledger.New(repos.Balances, uc.clock).WithReference(d.ID)
	if err := l.Lock(ctx, voterID, d.VoteStake); err != nil {
		return err
	}
	if err := repos.Disputes.AddVoter(ctx, d.ID, voterID); err != nil {
		return err
	}
	d.Voters = append(d.Voters, voterID)
	return nil
}

// Allocate lets any eligible participant join the jury of the open dispute on postID.
func (uc *DefaultModerationUsecase) Allocate(ctx context.Context, postID uint64, voterID string) (*disputedto.DisputeOutput, error) {
	var dispute *domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := repos.Disputes.GetOpenDisputeByPostID(ctx, postID)
		if errors.Is(err, domain.ErrDisputeNotFound) {
			return domain.ErrNoOpenDispute
		}
		if err != nil {
			return err
		}
		if err := uc.allocate(ctx, repos, d, voterID); err != nil {
			return err
		}
		dispute = d
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("allocate")
		return nil, fmt.Errorf("allocate %s to post %d: %w", voterID, postID, err)
	}
	uc.afterAllocation(dispute, voterID)
	return uc.toDisputeOutput(dispute), nil
}

// AllocateAny draws one open dispute the voter is eligible for, uniformly at
// random, and allocates the voter to it.
func (uc *DefaultModerationUsecase) AllocateAny(ctx context.Context, voterID string) (*disputedto.DisputeOutput, error) {
	if err := domain.CheckParticipant(voterID); err != nil {
		return nil, fmt.Errorf("allocate %s to any dispute: %w", voterID, err)
	}
	var dispute *domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		open, err := repos.Disputes.FindOpenDisputes(ctx)
		if err != nil {
			return err
		}
		eligible := make([]*domain.Dispute, 0, len(open))
		for _, d := range open {
			if checkEligible(d, voterID) == nil {
				eligible = append(eligible, d)
			}
		}
		if len(eligible) == 0 {
			return domain.ErrNoOpenDispute
		}
		d := eligible[uc.random.IntN(len(eligible))]
		// Re-read under lock; the listing above is not locked in every store.
		d, err = repos.Disputes.GetOpenDisputeByPostID(ctx, d.PostID)
		if err != nil {
			return err
		}
		if err := uc.allocate(ctx, repos, d, voterID); err != nil {
			return err
		}
		dispute = d
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("allocate_any")
		return nil, fmt.Errorf("allocate %s to any dispute: %w", voterID, err)
	}
	uc.afterAllocation(dispute, voterID)
	return uc.toDisputeOutput(dispute), nil
}

func (uc *DefaultModerationUsecase) afterAllocation(d *domain.Dispute, voterID string) {
	uc.metrics.RecordAllocation(d.VoteStake)
	uc.logger.Info("voter allocated",
		"dispute_id", d.ID,
		"post_id", d.PostID,
		"voter", voterID,
		"allocated", len(d.Voters),
	)
	uc.publish(domain.ModerationEvent{
		Type:          domain.EventVoterAllocated,
		PostID:        d.PostID,
		DisputeID:     d.ID,
		ParticipantID: voterID,
	})
}

// GetAllocatedDispute returns the most recently opened open dispute voterID is allocated to.
func (uc *DefaultModerationUsecase) GetAllocatedDispute(ctx context.Context, voterID string) (*disputedto.DisputeOutput, error) {
	var dispute *domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		open, err := repos.Disputes.FindOpenDisputes(ctx)
		if err != nil {
			return err
		}
		for i := len(open) - 1; i >= 0; i-- {
			if open[i].IsAllocated(voterID) {
				dispute = open[i]
				return nil
			}
		}
		return domain.ErrNotAllocated
	})
	if err != nil {
		return nil, fmt.Errorf("allocated dispute of %s: %w", voterID, err)
	}
	return uc.toDisputeOutput(dispute), nil
}
