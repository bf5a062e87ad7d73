package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
)

// Resolve settles the open dispute on postID once MinVotingPeriod has elapsed
// since it was opened, whatever the number of votes. The whole settlement is
// one unit of work.
func (uc *DefaultModerationUsecase) Resolve(ctx context.Context, postID uint64) (*disputedto.ResolutionOutput, error) {
	var (
		dispute *domain.Dispute
		plan    *SettlementPlan
		now     time.Time
		flagged bool
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		d, err := repos.Disputes.GetOpenDisputeByPostID(ctx, postID)
		if errors.Is(err, domain.ErrDisputeNotFound) {
			return domain.ErrDisputeNotOpen
		}
		if err != nil {
			return err
		}
		now = uc.clock.Now()
		if now.Before(d.WindowEndsAt(uc.params.MinVotingPeriod)) {
			return fmt.Errorf("%w: resolvable at %s", domain.ErrWindowNotElapsed, d.WindowEndsAt(uc.params.MinVotingPeriod).Format(time.RFC3339))
		}

		p := PlanSettlement(d)
		if err := p.Apply(ctx, ledger.New(repos.Balances, uc.clock).WithReference(d.ID)); err != nil {
			return fmt.Errorf("settle dispute %s: %w", d.ID, err)
		}
		if p.ClearFlag {
			if err := repos.Posts.SetFlagged(ctx, postID, false); err != nil {
				return err
			}
		}
		if flagged, err = repos.Posts.IsFlagged(ctx, postID); err != nil {
			return err
		}
		if err := repos.Disputes.ResolveDispute(ctx, d.ID, p.Outcome, now); err != nil {
			return err
		}
		dispute, plan = d, p
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("resolve")
		return nil, fmt.Errorf("resolve dispute on post %d: %w", postID, err)
	}

	uc.metrics.RecordResolution(
		string(plan.Outcome),
		now.Sub(dispute.OpenedAt).Seconds(),
		forfeitedDisputeStake(dispute, plan),
		plan.ForfeitedByVoters(dispute.DisputeStake),
		plan.Rewarded(),
		plan.Unclaimed,
	)
	uc.logger.Info("dispute resolved",
		"dispute_id", dispute.ID,
		"post_id", postID,
		"outcome", plan.Outcome,
		"approve", plan.ApproveCount,
		"reject", plan.RejectCount,
		"reward_per_winner", plan.RewardPerWinner,
		"unclaimed", plan.Unclaimed,
	)
	uc.publish(domain.ModerationEvent{
		Type:          resolutionEventType(plan.Outcome),
		PostID:        postID,
		DisputeID:     dispute.ID,
		ParticipantID: dispute.Disputant,
		ApproveCount:  plan.ApproveCount,
		RejectCount:   plan.RejectCount,
		OccurredAt:    now,
	})

	return &disputedto.ResolutionOutput{
		DisputeID:       dispute.ID,
		PostID:          postID,
		Outcome:         plan.Outcome,
		ApproveCount:    plan.ApproveCount,
		RejectCount:     plan.RejectCount,
		RewardPerWinner: plan.RewardPerWinner,
		Unclaimed:       plan.Unclaimed,
		PostFlagged:     flagged,
		ResolvedAt:      now,
	}, nil
}

func forfeitedDisputeStake(d *domain.Dispute, plan *SettlementPlan) uint64 {
	if plan.DisputantForfeited {
		return d.DisputeStake
	}
	return 0
}

// ResolveExpiredDisputes resolves every open dispute whose voting window has
// elapsed and whose jury reached MinVoteCount. A failure on one dispute is
// logged and does not stop the others.
func (uc *DefaultModerationUsecase) ResolveExpiredDisputes(ctx context.Context) error {
	var open []*domain.Dispute
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		disputes, err := repos.Disputes.FindOpenDisputes(ctx)
		open = disputes
		return err
	})
	if err != nil {
		return fmt.Errorf("find open disputes: %w", err)
	}

	now := uc.clock.Now()
	var errs []error
	for _, d := range open {
		if now.Before(d.WindowEndsAt(uc.params.MinVotingPeriod)) || len(d.Voters) < uc.params.MinVoteCount {
			continue
		}
		if _, err := uc.Resolve(ctx, d.PostID); err != nil {
			if errors.Is(err, domain.ErrDisputeNotOpen) {
				continue
			}
			uc.logger.Error("failed to auto-resolve dispute", "dispute_id", d.ID, "post_id", d.PostID, "error", err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
