package publisher

import (
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

type ModerationEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	PostID        uint64    `json:"post_id"`
	DisputeID     string    `json:"dispute_id,omitempty"`
	ParticipantID string    `json:"participant_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	ApproveCount  int       `json:"approve_count,omitempty"`
	RejectCount   int       `json:"reject_count,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func toModerationEvent(e domain.ModerationEvent) ModerationEvent {
	return ModerationEvent{
		EventID:       e.ID,
		Type:          string(e.Type),
		PostID:        e.PostID,
		DisputeID:     e.DisputeID,
		ParticipantID: e.ParticipantID,
		Reason:        e.Reason,
		ApproveCount:  e.ApproveCount,
		RejectCount:   e.RejectCount,
		OccurredAt:    e.OccurredAt,
	}
}

// ReportMessage is a post report emitted by the content service.
type ReportMessage struct {
	PostID     uint64 `json:"post_id"`
	ReporterID string `json:"reporter_id"`
}
