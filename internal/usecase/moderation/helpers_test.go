package moderation_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/metrics"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/moderation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type (
	disputeInput = disputedto.OpenDisputeInput
	voteInput    = disputedto.VoteInput
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// pickRandom always returns index, clamped to the range asked for.
type pickRandom struct{ index int }

func (r pickRandom) IntN(n int) int {
	if r.index >= n {
		return n - 1
	}
	return r.index
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ModerationEvent
}

func (p *recordingPublisher) PublishModerationEvent(_ context.Context, event domain.ModerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.ModerationEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ModerationEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var defaultParams = moderation.Params{
	MaxReportCount:   4,
	MinVoteCount:     8,
	OpenDisputeStake: 1000,
	VoteStake:        100,
	MinVotingPeriod:  24 * time.Hour,
}

type harness struct {
	uc        *moderation.DefaultModerationUsecase
	store     *memory.Store
	vault     *memory.Vault
	clock     *fakeClock
	metrics   *metrics.ModerationMetrics
	publisher *recordingPublisher
	params    moderation.Params
	deposited uint64
}

type harnessOption func(*harness, *[]moderation.Option)

func withParams(p moderation.Params) harnessOption {
	return func(h *harness, _ *[]moderation.Option) { h.params = p }
}

func withRandom(r domain.RandomSource) harnessOption {
	return func(_ *harness, opts *[]moderation.Option) {
		*opts = append(*opts, moderation.WithRandomSource(r))
	}
}

func newHarness(t *testing.T, options ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		store:     memory.NewStore(),
		vault:     memory.NewVault(),
		clock:     &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		metrics:   metrics.NewModerationMetrics(prometheus.NewRegistry()),
		publisher: &recordingPublisher{},
		params:    defaultParams,
	}
	opts := []moderation.Option{
		moderation.WithClock(h.clock),
		moderation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	for _, o := range options {
		o(h, &opts)
	}
	h.uc = moderation.NewDefaultModerationUsecase(h.store, h.vault, h.publisher, h.metrics, h.params, opts...)
	return h
}

func (h *harness) fund(t *testing.T, participantID string, amount uint64) {
	t.Helper()
	h.vault.Fund(participantID, amount)
	_, err := h.uc.Deposit(context.Background(), participantID, amount)
	require.NoError(t, err)
	h.deposited += amount
}

func (h *harness) flaggedPost(t *testing.T, creatorID string) uint64 {
	t.Helper()
	ctx := context.Background()
	post, err := h.uc.CreatePost(ctx, creatorID)
	require.NoError(t, err)
	for i := uint64(0); i < h.params.MaxReportCount; i++ {
		_, err := h.uc.ReportPost(ctx, post.ID, fmt.Sprintf("reporter-%d-%d", post.ID, i))
		require.NoError(t, err)
	}
	return post.ID
}

func (h *harness) balance(t *testing.T, participantID string) (available, locked uint64) {
	t.Helper()
	b, err := h.uc.GetBalance(context.Background(), participantID)
	require.NoError(t, err)
	return b.Available, b.Locked
}

// openWithJury opens a dispute on a fresh flagged post and allocates funded voters.
func (h *harness) openWithJury(t *testing.T, creatorID string, jury []string) uint64 {
	t.Helper()
	ctx := context.Background()
	postID := h.flaggedPost(t, creatorID)
	h.fund(t, creatorID, h.params.OpenDisputeStake)
	_, err := h.uc.OpenDispute(ctx, &disputeInput{PostID: postID, Disputant: creatorID})
	require.NoError(t, err)
	for _, voter := range jury {
		h.fund(t, voter, h.params.VoteStake)
		_, err := h.uc.Allocate(ctx, postID, voter)
		require.NoError(t, err)
	}
	return postID
}

func (h *harness) vote(t *testing.T, postID uint64, approve bool, voterIDs ...string) {
	t.Helper()
	for _, voter := range voterIDs {
		require.NoError(t, h.uc.Vote(context.Background(), &voteInput{PostID: postID, Voter: voter, Approve: approve}))
	}
}

// totalSupply sums every balance the test touched, reward pool included.
func (h *harness) totalSupply(t *testing.T, participants ...string) uint64 {
	t.Helper()
	var total uint64
	for _, p := range append(participants, domain.RewardPoolAccount) {
		available, locked := h.balance(t, p)
		total += available + locked
	}
	return total
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}
