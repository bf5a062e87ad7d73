package domain

import (
	"context"
	"time"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
)

type DisputeOutcome string

const (
	OutcomeNone     DisputeOutcome = "NONE"
	OutcomeTied     DisputeOutcome = "TIED"
	OutcomeApproved DisputeOutcome = "APPROVED"
	OutcomeRejected DisputeOutcome = "REJECTED"
)

type VoteChoice string

const (
	VoteApprove VoteChoice = "APPROVE"
	VoteReject  VoteChoice = "REJECT"
)

func VoteChoiceFromBool(approve bool) VoteChoice {
	if approve {
		return VoteApprove
	}
	return VoteReject
}

// Dispute is a challenge against a post's flag. Voters holds allocation order,
// Votes holds the choice of every voter that has voted. Stakes are captured at
// open time so settlement releases exactly what was locked.
type Dispute struct {
	ID           string
	PostID       uint64
	Disputant    string
	Reason       string
	Status       DisputeStatus
	Outcome      DisputeOutcome
	DisputeStake uint64
	VoteStake    uint64
	Voters       []string
	Votes        map[string]VoteChoice
	OpenedAt     time.Time
	ResolvedAt   time.Time
}

func (d *Dispute) IsOpen() bool {
	return d.Status == DisputeOpen
}

func (d *Dispute) IsAllocated(participantID string) bool {
	for _, voter := range d.Voters {
		if voter == participantID {
			return true
		}
	}
	return false
}

func (d *Dispute) HasVoted(participantID string) bool {
	_, ok := d.Votes[participantID]
	return ok
}

// Tally counts cast votes only; allocated voters that never voted are ignored.
func (d *Dispute) Tally() (approve, reject int) {
	for _, choice := range d.Votes {
		switch choice {
		case VoteApprove:
			approve++
		case VoteReject:
			reject++
		}
	}
	return approve, reject
}

// WindowEndsAt is the earliest instant at which the dispute may be resolved.
func (d *Dispute) WindowEndsAt(minVotingPeriod time.Duration) time.Time {
	return d.OpenedAt.Add(minVotingPeriod)
}

// Clone returns a deep copy so callers can't mutate stored state.
func (d *Dispute) Clone() *Dispute {
	if d == nil {
		return nil
	}
	c := *d
	c.Voters = append([]string(nil), d.Voters...)
	c.Votes = make(map[string]VoteChoice, len(d.Votes))
	for voter, choice := range d.Votes {
		c.Votes[voter] = choice
	}
	return &c
}

type DisputeRepository interface {
	CreateDispute(ctx context.Context, dispute *Dispute) error
	// GetOpenDisputeByPostID returns ErrDisputeNotFound when the post has no open dispute.
	GetOpenDisputeByPostID(ctx context.Context, postID uint64) (*Dispute, error)
	// GetLatestDisputeByPostID returns the open dispute or, failing that, the most recently opened one.
	GetLatestDisputeByPostID(ctx context.Context, postID uint64) (*Dispute, error)
	AddVoter(ctx context.Context, disputeID, participantID string) error
	RecordVote(ctx context.Context, disputeID, participantID string, choice VoteChoice) error
	ResolveDispute(ctx context.Context, disputeID string, outcome DisputeOutcome, resolvedAt time.Time) error
	// FindOpenDisputes lists open disputes ordered by opening time.
	FindOpenDisputes(ctx context.Context) ([]*Dispute, error)
}
