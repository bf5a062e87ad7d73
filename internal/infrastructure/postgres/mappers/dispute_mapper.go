package mappers

import (
	"sort"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	voters := append([]models.DisputeVoterModel(nil), model.Voters...)
	sort.Slice(voters, func(i, j int) bool { return voters[i].Position < voters[j].Position })

	dispute := &domain.Dispute{
		ID:           model.ID,
		PostID:       model.PostID,
		Disputant:    model.Disputant,
		Reason:       model.Reason,
		Status:       domain.DisputeStatus(model.Status),
		Outcome:      domain.DisputeOutcome(model.Outcome),
		DisputeStake: model.DisputeStake,
		VoteStake:    model.VoteStake,
		Voters:       make([]string, 0, len(voters)),
		Votes:        make(map[string]domain.VoteChoice),
		OpenedAt:     model.OpenedAt,
	}
	if model.ResolvedAt != nil {
		dispute.ResolvedAt = *model.ResolvedAt
	}
	for _, voter := range voters {
		dispute.Voters = append(dispute.Voters, voter.ParticipantID)
		if voter.Vote != nil {
			dispute.Votes[voter.ParticipantID] = domain.VoteChoice(*voter.Vote)
		}
	}
	return dispute
}

// ToGORMDispute maps the dispute row only; voters are written through AddVoter.
func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	model := &models.DisputeModel{
		ID:           dispute.ID,
		PostID:       dispute.PostID,
		Disputant:    dispute.Disputant,
		Reason:       dispute.Reason,
		Status:       string(dispute.Status),
		Outcome:      string(dispute.Outcome),
		DisputeStake: dispute.DisputeStake,
		VoteStake:    dispute.VoteStake,
		OpenedAt:     dispute.OpenedAt,
	}
	if !dispute.ResolvedAt.IsZero() {
		resolvedAt := dispute.ResolvedAt
		model.ResolvedAt = &resolvedAt
	}
	return model
}
