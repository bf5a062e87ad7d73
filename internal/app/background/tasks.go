package background

import (
	"context"
	"log/slog"
	"time"

	publisher "github.com/LavaJover/shvark-moderation-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/moderation"
	"golang.org/x/sync/errgroup"
)

type BackgroundTasks struct {
	ModerationUsecase   moderation.ModerationUsecase
	ReportSubscriber    *publisher.ReportSubscriber
	AutoResolveInterval time.Duration
	Logger              *slog.Logger
}

func NewBackgroundTasks(uc moderation.ModerationUsecase, subscriber *publisher.ReportSubscriber, autoResolveInterval time.Duration, logger *slog.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		ModerationUsecase:   uc,
		ReportSubscriber:    subscriber,
		AutoResolveInterval: autoResolveInterval,
		Logger:              logger,
	}
}

// Run blocks until ctx is done or a task fails.
func (bt *BackgroundTasks) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if bt.AutoResolveInterval > 0 {
		g.Go(func() error {
			bt.startAutoResolve(ctx)
			return nil
		})
	}
	if bt.ReportSubscriber != nil {
		g.Go(func() error {
			return bt.ReportSubscriber.Run(ctx, bt.handleReport)
		})
	}
	return g.Wait()
}

func (bt *BackgroundTasks) startAutoResolve(ctx context.Context) {
	ticker := time.NewTicker(bt.AutoResolveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.ModerationUsecase.ResolveExpiredDisputes(ctx); err != nil {
				bt.Logger.Error("auto-resolve failed", "error", err.Error())
			}
		}
	}
}

func (bt *BackgroundTasks) handleReport(ctx context.Context, postID uint64, reporterID string) error {
	_, err := bt.ModerationUsecase.ReportPost(ctx, postID, reporterID)
	return err
}
