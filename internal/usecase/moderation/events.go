package moderation

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/google/uuid"
)

const publishTimeout = 10 * time.Second

// publish sends the event after the unit of work committed. Failures are
// logged only; the operation already succeeded.
func (uc *DefaultModerationUsecase) publish(event domain.ModerationEvent) {
	if uc.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = uc.clock.Now()
	}
	go func(event domain.ModerationEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.publisher.PublishModerationEvent(ctx, event); err != nil {
			uc.logger.Error("failed to publish moderation event",
				"type", event.Type,
				"post_id", event.PostID,
				"dispute_id", event.DisputeID,
				"error", err.Error(),
			)
		}
	}(event)
}

func resolutionEventType(outcome domain.DisputeOutcome) domain.ModerationEventType {
	switch outcome {
	case domain.OutcomeApproved:
		return domain.EventDisputeApproved
	case domain.OutcomeRejected:
		return domain.EventDisputeRejected
	default:
		return domain.EventDisputeTied
	}
}
