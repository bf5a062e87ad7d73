package setup

import (
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/moderation"
)

type UseCases struct {
	ModerationUsecase *moderation.DefaultModerationUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	params := moderation.Params{
		MaxReportCount:   deps.Config.Moderation.MaxReportCount,
		MinVoteCount:     deps.Config.Moderation.MinVoteCount,
		OpenDisputeStake: deps.Config.Moderation.OpenDisputeStake,
		VoteStake:        deps.Config.Moderation.VoteStake,
		MinVotingPeriod:  deps.Config.Moderation.MinVotingPeriod,
	}

	return &UseCases{
		ModerationUsecase: moderation.NewDefaultModerationUsecase(
			deps.Transactor,
			deps.Vault,
			deps.Publisher,
			deps.Metrics,
			params,
			moderation.WithLogger(deps.Logger),
		),
	}
}
