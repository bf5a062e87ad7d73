package moderation

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disputeWithVotes(votes map[string]domain.VoteChoice, allocated ...string) *domain.Dispute {
	return &domain.Dispute{
		ID:           "d1",
		PostID:       1,
		Disputant:    "creator",
		Status:       domain.DisputeOpen,
		DisputeStake: 1000,
		VoteStake:    100,
		Voters:       allocated,
		Votes:        votes,
	}
}

func voters(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + string(rune('a'+i))
	}
	return out
}

func castVotes(choice domain.VoteChoice, ids []string, into map[string]domain.VoteChoice) {
	for _, id := range ids {
		into[id] = choice
	}
}

func TestPlanSettlement_Tie(t *testing.T) {
	approvers, rejecters := voters("ap-", 4), voters("rj-", 4)
	votes := map[string]domain.VoteChoice{}
	castVotes(domain.VoteApprove, approvers, votes)
	castVotes(domain.VoteReject, rejecters, votes)

	plan := PlanSettlement(disputeWithVotes(votes, append(approvers, rejecters...)...))

	assert.Equal(t, domain.OutcomeTied, plan.Outcome)
	assert.Equal(t, 4, plan.ApproveCount)
	assert.Equal(t, 4, plan.RejectCount)
	assert.Len(t, plan.Refunds, 9)
	assert.Equal(t, Stake{ParticipantID: "creator", Amount: 1000}, plan.Refunds[0])
	assert.Empty(t, plan.Forfeits)
	assert.Empty(t, plan.Winners)
	assert.Zero(t, plan.Pool)
	assert.False(t, plan.ClearFlag)
	assert.False(t, plan.DisputantForfeited)
}

func TestPlanSettlement_NoVotesIsTie(t *testing.T) {
	plan := PlanSettlement(disputeWithVotes(map[string]domain.VoteChoice{}, "x", "y"))

	assert.Equal(t, domain.OutcomeTied, plan.Outcome)
	assert.Len(t, plan.Refunds, 3)
	assert.Zero(t, plan.Pool)
}

func TestPlanSettlement_Approved(t *testing.T) {
	approvers, rejecters := voters("ap-", 5), voters("rj-", 3)
	votes := map[string]domain.VoteChoice{}
	castVotes(domain.VoteApprove, approvers, votes)
	castVotes(domain.VoteReject, rejecters, votes)

	plan := PlanSettlement(disputeWithVotes(votes, append(approvers, rejecters...)...))

	assert.Equal(t, domain.OutcomeApproved, plan.Outcome)
	assert.True(t, plan.ClearFlag)
	assert.False(t, plan.DisputantForfeited)
	assert.Equal(t, approvers, plan.Winners)
	assert.Len(t, plan.Refunds, 6)
	assert.Len(t, plan.Forfeits, 3)
	assert.Equal(t, uint64(300), plan.Pool)
	assert.Equal(t, uint64(60), plan.RewardPerWinner)
	assert.Zero(t, plan.Unclaimed)
	assert.Equal(t, uint64(300), plan.Rewarded())
	assert.Equal(t, uint64(300), plan.ForfeitedByVoters(1000))
}

func TestPlanSettlement_RejectedForfeitsDisputantStake(t *testing.T) {
	approvers, rejecters := voters("ap-", 3), voters("rj-", 5)
	votes := map[string]domain.VoteChoice{}
	castVotes(domain.VoteApprove, approvers, votes)
	castVotes(domain.VoteReject, rejecters, votes)

	plan := PlanSettlement(disputeWithVotes(votes, append(approvers, rejecters...)...))

	assert.Equal(t, domain.OutcomeRejected, plan.Outcome)
	assert.False(t, plan.ClearFlag)
	assert.True(t, plan.DisputantForfeited)
	assert.Equal(t, rejecters, plan.Winners)
	assert.Contains(t, plan.Forfeits, Stake{ParticipantID: "creator", Amount: 1000})
	assert.Len(t, plan.Forfeits, 4)
	assert.Equal(t, uint64(1300), plan.Pool)
	assert.Equal(t, uint64(260), plan.RewardPerWinner)
	assert.Zero(t, plan.Unclaimed)
	assert.Equal(t, uint64(300), plan.ForfeitedByVoters(1000))
}

func TestPlanSettlement_RemainderStaysUnclaimed(t *testing.T) {
	votes := map[string]domain.VoteChoice{
		"a": domain.VoteReject,
		"b": domain.VoteReject,
		"c": domain.VoteReject,
		"d": domain.VoteApprove,
	}

	plan := PlanSettlement(disputeWithVotes(votes, "a", "b", "c", "d"))

	assert.Equal(t, domain.OutcomeRejected, plan.Outcome)
	assert.Equal(t, uint64(1100), plan.Pool)
	assert.Equal(t, uint64(366), plan.RewardPerWinner)
	assert.Equal(t, uint64(2), plan.Unclaimed)
	assert.Equal(t, plan.Pool, plan.Rewarded()+plan.Unclaimed)
}

func TestPlanSettlement_NonVotersAreRefunded(t *testing.T) {
	votes := map[string]domain.VoteChoice{
		"a": domain.VoteApprove,
		"b": domain.VoteApprove,
		"c": domain.VoteReject,
	}

	plan := PlanSettlement(disputeWithVotes(votes, "a", "b", "c", "idle"))

	assert.Equal(t, domain.OutcomeApproved, plan.Outcome)
	assert.Contains(t, plan.Refunds, Stake{ParticipantID: "idle", Amount: 100})
	assert.NotContains(t, plan.Winners, "idle")
	for _, f := range plan.Forfeits {
		assert.NotEqual(t, "idle", f.ParticipantID)
	}
	assert.Equal(t, uint64(50), plan.RewardPerWinner)
}

func TestPlanSettlement_Deterministic(t *testing.T) {
	votes := map[string]domain.VoteChoice{}
	all := voters("v-", 8)
	castVotes(domain.VoteApprove, all[:5], votes)
	castVotes(domain.VoteReject, all[5:], votes)
	d := disputeWithVotes(votes, all...)

	first := PlanSettlement(d)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, PlanSettlement(d))
	}
}

// recordingBalances is a map-backed BalanceRepository that remembers read order.
type recordingBalances struct {
	balances map[string]domain.Balance
	reads    []string
}

func (r *recordingBalances) GetBalance(_ context.Context, participantID string) (*domain.Balance, error) {
	r.reads = append(r.reads, participantID)
	b, ok := r.balances[participantID]
	if !ok {
		b = domain.Balance{ParticipantID: participantID}
	}
	return &b, nil
}

func (r *recordingBalances) SaveBalance(_ context.Context, balance *domain.Balance) error {
	r.balances[balance.ParticipantID] = *balance
	return nil
}

func (r *recordingBalances) AppendEntry(context.Context, *domain.LedgerEntry) error {
	return nil
}

func (r *recordingBalances) ListEntries(context.Context, string) ([]*domain.LedgerEntry, error) {
	return nil, nil
}

func TestSettlementPlan_ApplyReadsBalancesInSortedOrder(t *testing.T) {
	votes := map[string]domain.VoteChoice{
		"zed": domain.VoteApprove,
		"amy": domain.VoteApprove,
		"mia": domain.VoteReject,
	}
	d := disputeWithVotes(votes, "zed", "mia", "amy")
	repo := &recordingBalances{balances: map[string]domain.Balance{
		"creator": {ParticipantID: "creator", Locked: 1000},
		"zed":     {ParticipantID: "zed", Locked: 100},
		"mia":     {ParticipantID: "mia", Locked: 100},
		"amy":     {ParticipantID: "amy", Locked: 100},
	}}

	plan := PlanSettlement(d)
	sorted := []string{"amy", "creator", "mia", domain.RewardPoolAccount, "zed"}
	assert.Equal(t, sorted, plan.Participants())

	require.NoError(t, plan.Apply(context.Background(), ledger.New(repo, nil)))
	require.GreaterOrEqual(t, len(repo.reads), len(sorted))
	assert.Equal(t, sorted, repo.reads[:len(sorted)])

	assert.Equal(t, uint64(150), repo.balances["zed"].Available)
	assert.Equal(t, uint64(150), repo.balances["amy"].Available)
	assert.Equal(t, uint64(0), repo.balances["mia"].Total())
	assert.Equal(t, uint64(1000), repo.balances["creator"].Available)
}
