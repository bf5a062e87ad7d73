package moderation

import (
	"context"
	"fmt"
	"slices"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
)

// Stake is one participant's locked amount as seen by a settlement.
type Stake struct {
	ParticipantID string
	Amount        uint64
}

// SettlementPlan is computed from an immutable dispute snapshot before any
// balance is touched, then applied in a single pass.
type SettlementPlan struct {
	DisputeID    string
	Outcome      domain.DisputeOutcome
	ApproveCount int
	RejectCount  int

	// Refunds are unlocked back to their owner unchanged.
	Refunds []Stake
	// Forfeits move into the reward pool.
	Forfeits []Stake
	// Winners each receive RewardPerWinner out of the pool.
	Winners         []string
	RewardPerWinner uint64

	Pool      uint64
	Unclaimed uint64

	DisputantForfeited bool
	ClearFlag          bool
}

func (p *SettlementPlan) Rewarded() uint64 {
	return p.RewardPerWinner * uint64(len(p.Winners))
}

// ForfeitedByVoters is the part of the pool that came from losing voters.
func (p *SettlementPlan) ForfeitedByVoters(disputeStake uint64) uint64 {
	if p.DisputantForfeited {
		return p.Pool - disputeStake
	}
	return p.Pool
}

// PlanSettlement decides the outcome by strict majority of cast votes and lays
// out every balance movement it implies. Voters iterate in allocation order so
// plans are deterministic.
func PlanSettlement(d *domain.Dispute) *SettlementPlan {
	approve, reject := d.Tally()
	plan := &SettlementPlan{
		DisputeID:    d.ID,
		ApproveCount: approve,
		RejectCount:  reject,
	}

	var winning domain.VoteChoice
	switch {
	case approve == reject:
		plan.Outcome = domain.OutcomeTied
	case approve > reject:
		plan.Outcome = domain.OutcomeApproved
		plan.ClearFlag = true
		winning = domain.VoteApprove
	default:
		plan.Outcome = domain.OutcomeRejected
		winning = domain.VoteReject
	}

	if plan.Outcome == domain.OutcomeRejected {
		plan.DisputantForfeited = true
		plan.Forfeits = append(plan.Forfeits, Stake{ParticipantID: d.Disputant, Amount: d.DisputeStake})
		plan.Pool += d.DisputeStake
	} else {
		plan.Refunds = append(plan.Refunds, Stake{ParticipantID: d.Disputant, Amount: d.DisputeStake})
	}

	for _, voter := range d.Voters {
		choice, voted := d.Votes[voter]
		switch {
		case plan.Outcome == domain.OutcomeTied || !voted:
			plan.Refunds = append(plan.Refunds, Stake{ParticipantID: voter, Amount: d.VoteStake})
		case choice == winning:
			plan.Refunds = append(plan.Refunds, Stake{ParticipantID: voter, Amount: d.VoteStake})
			plan.Winners = append(plan.Winners, voter)
		default:
			plan.Forfeits = append(plan.Forfeits, Stake{ParticipantID: voter, Amount: d.VoteStake})
			plan.Pool += d.VoteStake
		}
	}

	if len(plan.Winners) > 0 {
		plan.RewardPerWinner = plan.Pool / uint64(len(plan.Winners))
	}
	plan.Unclaimed = plan.Pool - plan.Rewarded()
	return plan
}

// Participants lists every account the plan touches, sorted.
func (p *SettlementPlan) Participants() []string {
	ids := make([]string, 0, len(p.Refunds)+len(p.Forfeits)+1)
	for _, s := range p.Refunds {
		ids = append(ids, s.ParticipantID)
	}
	for _, s := range p.Forfeits {
		ids = append(ids, s.ParticipantID)
	}
	if len(p.Forfeits) > 0 {
		ids = append(ids, domain.RewardPoolAccount)
	}
	ids = append(ids, p.Winners...)
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Apply commits the plan through l. Balances are first read in Participants
// order, which takes their row locks in a fixed order across concurrent
// resolves. Refunds go first, then forfeits into the pool, then rewards out
// of it. Any error leaves partial writes for the caller's unit of work to roll
// back.
func (p *SettlementPlan) Apply(ctx context.Context, l *ledger.Ledger) error {
	for _, participantID := range p.Participants() {
		if _, err := l.BalanceOf(ctx, participantID); err != nil {
			return fmt.Errorf("lock balance of %s: %w", participantID, err)
		}
	}
	for _, refund := range p.Refunds {
		if err := l.Unlock(ctx, refund.ParticipantID, refund.Amount); err != nil {
			return fmt.Errorf("refund %s: %w", refund.ParticipantID, err)
		}
	}
	for _, forfeit := range p.Forfeits {
		if err := l.ForfeitLocked(ctx, forfeit.ParticipantID, forfeit.Amount, domain.RewardPoolAccount); err != nil {
			return fmt.Errorf("forfeit %s: %w", forfeit.ParticipantID, err)
		}
	}
	for _, winner := range p.Winners {
		if err := l.TransferLocked(ctx, domain.RewardPoolAccount, winner, p.RewardPerWinner); err != nil {
			return fmt.Errorf("reward %s: %w", winner, err)
		}
	}
	return nil
}
