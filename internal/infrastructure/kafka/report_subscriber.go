package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// ReportHandler is called for every decoded report message.
type ReportHandler func(ctx context.Context, postID uint64, reporterID string) error

type ReportSubscriber struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewReportSubscriber(brokers []string, topic, groupID string, logger *slog.Logger) *ReportSubscriber {
	return &ReportSubscriber{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		logger: logger,
	}
}

// Run consumes until ctx is done. Malformed messages and reports the usecase
// rejects for good are logged and committed; any other handler error stops the
// consumer without committing.
func (s *ReportSubscriber) Run(ctx context.Context, handle ReportHandler) error {
	defer s.reader.Close()
	for {
		m, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var report ReportMessage
		if err := json.Unmarshal(m.Value, &report); err != nil {
			s.logger.Error("malformed report message", "offset", m.Offset, "error", err.Error())
		} else if err := handle(ctx, report.PostID, report.ReporterID); err != nil {
			if !skippable(err) {
				return err
			}
			s.logger.Warn("report skipped", "post_id", report.PostID, "reporter", report.ReporterID, "error", err.Error())
		}

		if err := s.reader.CommitMessages(ctx, m); err != nil {
			return err
		}
	}
}

func skippable(err error) bool {
	return errors.Is(err, domain.ErrAlreadyReported) ||
		errors.Is(err, domain.ErrPostNotFound) ||
		errors.Is(err, domain.ErrReservedParticipant) ||
		errors.Is(err, domain.ErrInvalidParticipant)
}
