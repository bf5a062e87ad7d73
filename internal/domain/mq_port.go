package domain

import (
	"context"
	"time"
)

type ModerationEventType string

const (
	EventPostFlagged     ModerationEventType = "POST_FLAGGED"
	EventDisputeOpened   ModerationEventType = "DISPUTE_OPENED"
	EventVoterAllocated  ModerationEventType = "VOTER_ALLOCATED"
	EventVoteCast        ModerationEventType = "VOTE_CAST"
	EventDisputeTied     ModerationEventType = "DISPUTE_TIED"
	EventDisputeApproved ModerationEventType = "DISPUTE_APPROVED"
	EventDisputeRejected ModerationEventType = "DISPUTE_REJECTED"
)

type ModerationEvent struct {
	ID            string
	Type          ModerationEventType
	PostID        uint64
	DisputeID     string
	ParticipantID string
	Reason        string
	ApproveCount  int
	RejectCount   int
	OccurredAt    time.Time
}

type EventPublisher interface {
	PublishModerationEvent(ctx context.Context, event ModerationEvent) error
}
