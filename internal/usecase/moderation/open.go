package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
	"github.com/jaevor/go-nanoid"
)

// OpenDispute lets the creator of a flagged post challenge the flag, locking
// OpenDisputeStake from the creator's available balance.
func (uc *DefaultModerationUsecase) OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*disputedto.DisputeOutput, error) {
	if err := domain.CheckParticipant(input.Disputant); err != nil {
		return nil, fmt.Errorf("open dispute for post %d: %w", input.PostID, err)
	}
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	var dispute *domain.Dispute
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		post, err := repos.Posts.GetPost(ctx, input.PostID)
		if err != nil {
			return err
		}
		if !post.Flagged {
			return domain.ErrNotFlagged
		}
		if _, err := repos.Disputes.GetOpenDisputeByPostID(ctx, input.PostID); err == nil {
			return domain.ErrDisputeAlreadyOpen
		} else if !errors.Is(err, domain.ErrDisputeNotFound) {
			return err
		}
		if post.CreatorID != input.Disputant {
			return domain.ErrNotPostCreator
		}

		d := &domain.Dispute{
			ID:           idGenerator(),
			PostID:       input.PostID,
			Disputant:    input.Disputant,
			Reason:       input.Reason,
			Status:       domain.DisputeOpen,
			Outcome:      domain.OutcomeNone,
			DisputeStake: uc.params.OpenDisputeStake,
			VoteStake:    uc.params.VoteStake,
			Votes:        make(map[string]domain.VoteChoice),
			OpenedAt:     uc.clock.Now(),
		}
		l := ledger.New(repos.Balances, uc.clock).WithReference(d.ID)
		if err := l.Lock(ctx, d.Disputant, d.DisputeStake); err != nil {
			return err
		}
		if err := repos.Disputes.CreateDispute(ctx, d); err != nil {
			return err
		}
		dispute = d
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("open_dispute")
		return nil, fmt.Errorf("open dispute for post %d: %w", input.PostID, err)
	}

	uc.metrics.RecordDisputeOpened(dispute.DisputeStake)
	uc.logger.Info("dispute opened",
		"dispute_id", dispute.ID,
		"post_id", dispute.PostID,
		"disputant", dispute.Disputant,
		"stake", dispute.DisputeStake,
	)
	uc.publish(domain.ModerationEvent{
		Type:          domain.EventDisputeOpened,
		PostID:        dispute.PostID,
		DisputeID:     dispute.ID,
		ParticipantID: dispute.Disputant,
		Reason:        dispute.Reason,
		OccurredAt:    dispute.OpenedAt,
	})
	return uc.toDisputeOutput(dispute), nil
}
