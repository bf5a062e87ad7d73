package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ModerationMetrics holds every metric the moderation usecase records.
// A nil *ModerationMetrics is valid and records nothing.
type ModerationMetrics struct {
	// Reports and flags
	PostsReportedTotal prometheus.Counter
	PostsFlaggedTotal  prometheus.Counter

	// Dispute lifecycle
	DisputesOpenedTotal   prometheus.Counter
	VotersAllocatedTotal  prometheus.Counter
	VotesCastTotal        *prometheus.CounterVec
	DisputesResolvedTotal *prometheus.CounterVec
	DisputeLifetime       prometheus.Histogram
	DisputesOpenGauge     prometheus.Gauge

	// Tokens
	StakeLockedTotal    *prometheus.CounterVec
	StakeForfeitedTotal *prometheus.CounterVec
	RewardsPaidTotal    prometheus.Counter
	RewardsUnclaimed    prometheus.Counter

	// Errors
	OperationErrorsTotal *prometheus.CounterVec
}

// NewModerationMetrics registers the metrics on reg.
func NewModerationMetrics(reg prometheus.Registerer) *ModerationMetrics {
	factory := promauto.With(reg)
	return &ModerationMetrics{
		PostsReportedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_posts_reported_total",
			Help: "Accepted post reports",
		}),
		PostsFlaggedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_posts_flagged_total",
			Help: "Posts that reached the report threshold",
		}),

		DisputesOpenedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_disputes_opened_total",
			Help: "Disputes opened against a flag",
		}),
		VotersAllocatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_voters_allocated_total",
			Help: "Voter allocations to open disputes",
		}),
		VotesCastTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_votes_cast_total",
				Help: "Votes cast by choice",
			},
			[]string{"choice"},
		),
		DisputesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_disputes_resolved_total",
				Help: "Resolved disputes by outcome",
			},
			[]string{"outcome"},
		),
		DisputeLifetime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moderation_dispute_lifetime_seconds",
			Help:    "Time from opening to resolution",
			Buckets: prometheus.ExponentialBuckets(3600, 2, 10), // 1h, 2h, 4h...
		}),
		DisputesOpenGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moderation_disputes_open",
			Help: "Disputes currently open",
		}),

		StakeLockedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_stake_locked_tokens_total",
				Help: "Tokens locked as stake",
			},
			[]string{"kind"},
		),
		StakeForfeitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_stake_forfeited_tokens_total",
				Help: "Tokens forfeited into the reward pool",
			},
			[]string{"kind"},
		),
		RewardsPaidTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_rewards_paid_tokens_total",
			Help: "Tokens paid from the reward pool to winning voters",
		}),
		RewardsUnclaimed: factory.NewCounter(prometheus.CounterOpts{
			Name: "moderation_rewards_unclaimed_tokens_total",
			Help: "Rounding remainders left in the reward pool",
		}),

		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moderation_operation_errors_total",
				Help: "Failed moderation operations",
			},
			[]string{"operation"},
		),
	}
}

func (m *ModerationMetrics) RecordReport(flagged bool) {
	if m == nil {
		return
	}
	m.PostsReportedTotal.Inc()
	if flagged {
		m.PostsFlaggedTotal.Inc()
	}
}

func (m *ModerationMetrics) RecordDisputeOpened(stake uint64) {
	if m == nil {
		return
	}
	m.DisputesOpenedTotal.Inc()
	m.DisputesOpenGauge.Inc()
	m.StakeLockedTotal.WithLabelValues("dispute").Add(float64(stake))
}

func (m *ModerationMetrics) RecordAllocation(stake uint64) {
	if m == nil {
		return
	}
	m.VotersAllocatedTotal.Inc()
	m.StakeLockedTotal.WithLabelValues("vote").Add(float64(stake))
}

func (m *ModerationMetrics) RecordVote(choice string) {
	if m == nil {
		return
	}
	m.VotesCastTotal.WithLabelValues(choice).Inc()
}

// RecordResolution records one settled dispute. forfeitedDispute and
// forfeitedVotes are the tokens moved into the pool by the disputant and by
// losing voters.
func (m *ModerationMetrics) RecordResolution(outcome string, lifetimeSeconds float64, forfeitedDispute, forfeitedVotes, rewarded, unclaimed uint64) {
	if m == nil {
		return
	}
	m.DisputesResolvedTotal.WithLabelValues(outcome).Inc()
	m.DisputeLifetime.Observe(lifetimeSeconds)
	m.DisputesOpenGauge.Dec()
	m.StakeForfeitedTotal.WithLabelValues("dispute").Add(float64(forfeitedDispute))
	m.StakeForfeitedTotal.WithLabelValues("vote").Add(float64(forfeitedVotes))
	m.RewardsPaidTotal.Add(float64(rewarded))
	m.RewardsUnclaimed.Add(float64(unclaimed))
}

func (m *ModerationMetrics) RecordError(operation string) {
	if m == nil {
		return
	}
	m.OperationErrorsTotal.WithLabelValues(operation).Inc()
}
