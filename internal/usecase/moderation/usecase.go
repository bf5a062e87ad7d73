package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/metrics"
	balancedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/balance"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
)

// Params are the tunables of the moderation process.
type Params struct {
	// MaxReportCount is the number of distinct reports that flags a post.
	MaxReportCount uint64
	// MinVoteCount is advisory: it drives QuorumReached and the auto-resolver,
	// never a manual resolve.
	MinVoteCount     int
	OpenDisputeStake uint64
	VoteStake        uint64
	MinVotingPeriod  time.Duration
}

type ModerationUsecase interface {
	CreatePost(ctx context.Context, creatorID string) (*domain.Post, error)
	ReportPost(ctx context.Context, postID uint64, reporterID string) (*domain.Post, error)
	GetPost(ctx context.Context, postID uint64) (*domain.Post, error)

	OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*disputedto.DisputeOutput, error)
	Allocate(ctx context.Context, postID uint64, voterID string) (*disputedto.DisputeOutput, error)
	AllocateAny(ctx context.Context, voterID string) (*disputedto.DisputeOutput, error)
	GetAllocatedDispute(ctx context.Context, voterID string) (*disputedto.DisputeOutput, error)
	Vote(ctx context.Context, input *disputedto.VoteInput) error
	Resolve(ctx context.Context, postID uint64) (*disputedto.ResolutionOutput, error)
	ResolveExpiredDisputes(ctx context.Context) error
	GetDispute(ctx context.Context, postID uint64) (*disputedto.DisputeOutput, error)

	GetBalance(ctx context.Context, participantID string) (*balancedto.BalanceOutput, error)
	Deposit(ctx context.Context, participantID string, amount uint64) (*balancedto.BalanceOutput, error)
	Withdraw(ctx context.Context, participantID string, amount uint64) (*balancedto.BalanceOutput, error)
}

type DefaultModerationUsecase struct {
	tx        domain.Transactor
	vault     domain.TokenVault
	publisher domain.EventPublisher
	metrics   *metrics.ModerationMetrics
	clock     domain.Clock
	random    domain.RandomSource
	logger    *slog.Logger
	params    Params
}

type Option func(*DefaultModerationUsecase)

func WithClock(clock domain.Clock) Option {
	return func(uc *DefaultModerationUsecase) { uc.clock = clock }
}

func WithRandomSource(random domain.RandomSource) Option {
	return func(uc *DefaultModerationUsecase) { uc.random = random }
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *DefaultModerationUsecase) { uc.logger = logger }
}

func NewDefaultModerationUsecase(
	tx domain.Transactor,
	vault domain.TokenVault,
	publisher domain.EventPublisher,
	moderationMetrics *metrics.ModerationMetrics,
	params Params,
	opts ...Option,
) *DefaultModerationUsecase {
	uc := &DefaultModerationUsecase{
		tx:        tx,
		vault:     vault,
		publisher: publisher,
		metrics:   moderationMetrics,
		clock:     domain.SystemClock{},
		random:    defaultRandom{},
		logger:    slog.Default(),
		params:    params,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

var _ ModerationUsecase = (*DefaultModerationUsecase)(nil)
