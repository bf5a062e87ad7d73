package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
)

// Vote records an allocated voter's single choice. Balances are untouched.
func (uc *DefaultModerationUsecase) Vote(ctx context.Context, input *disputedto.VoteInput) error {
	if err := domain.CheckParticipant(input.Voter); err != nil {
		return fmt.Errorf("vote on post %d: %w", input.PostID, err)
	}
	choice := domain.VoteChoiceFromBool(input.Approve)

	var dispute *domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := repos.Disputes.GetOpenDisputeByPostID(ctx, input.PostID)
		if errors.Is(err, domain.ErrDisputeNotFound) {
			return domain.ErrNoOpenDispute
		}
		if err != nil {
			return err
		}
		if !d.IsAllocated(input.Voter) {
			return domain.ErrNotAllocated
		}
		if d.HasVoted(input.Voter) {
			return domain.ErrAlreadyVoted
		}
		if err := repos.Disputes.RecordVote(ctx, d.ID, input.Voter, choice); err != nil {
			return err
		}
		d.Votes[input.Voter] = choice
		dispute = d
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("vote")
		return fmt.Errorf("vote by %s on post %d: %w", input.Voter, input.PostID, err)
	}

	uc.metrics.RecordVote(string(choice))
	uc.logger.Info("vote cast",
		"dispute_id", dispute.ID,
		"post_id", dispute.PostID,
		"voter", input.Voter,
		"choice", choice,
	)
	uc.publish(domain.ModerationEvent{
		Type:          domain.EventVoteCast,
		PostID:        dispute.PostID,
		DisputeID:     dispute.ID,
		ParticipantID: input.Voter,
	})
	return nil
}
