package moderation

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
)

// GetDispute returns the open dispute on postID or, if none is open, the most recent one.
func (uc *DefaultModerationUsecase) GetDispute(ctx context.Context, postID uint64) (*disputedto.DisputeOutput, error) {
	var dispute *domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := repos.Disputes.GetLatestDisputeByPostID(ctx, postID)
		dispute = d
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dispute on post %d: %w", postID, err)
	}
	return uc.toDisputeOutput(dispute), nil
}

func (uc *DefaultModerationUsecase) toDisputeOutput(d *domain.Dispute) *disputedto.DisputeOutput {
	approve, reject := d.Tally()
	return &disputedto.DisputeOutput{
		DisputeID:     d.ID,
		PostID:        d.PostID,
		Disputant:     d.Disputant,
		Reason:        d.Reason,
		Status:        d.Status,
		Outcome:       d.Outcome,
		Voters:        append([]string(nil), d.Voters...),
		ApproveCount:  approve,
		RejectCount:   reject,
		QuorumReached: len(d.Voters) >= uc.params.MinVoteCount,
		OpenedAt:      d.OpenedAt,
		ResolvableAt:  d.WindowEndsAt(uc.params.MinVotingPeriod),
		ResolvedAt:    d.ResolvedAt,
	}
}
