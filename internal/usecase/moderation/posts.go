package moderation

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

func (uc *DefaultModerationUsecase) CreatePost(ctx context.Context, creatorID string) (*domain.Post, error) {
	if err := domain.CheckParticipant(creatorID); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post := &domain.Post{
		CreatorID: creatorID,
		CreatedAt: uc.clock.Now(),
	}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Posts.CreatePost(ctx, post)
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// ReportPost counts one report per reporter and flags the post once the count
// reaches MaxReportCount, unless a dispute already cleared its flag.
func (uc *DefaultModerationUsecase) ReportPost(ctx context.Context, postID uint64, reporterID string) (*domain.Post, error) {
	if err := domain.CheckParticipant(reporterID); err != nil {
		return nil, fmt.Errorf("report post %d: %w", postID, err)
	}
	var (
		post       *domain.Post
		flaggedNow bool
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		p, err := repos.Posts.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		count, err := repos.Posts.AddReport(ctx, postID, reporterID)
		if err != nil {
			return err
		}
		p.ReportCount = count
		if !p.Flagged && !p.FlagCleared && count >= uc.params.MaxReportCount {
			if err := repos.Posts.SetFlagged(ctx, postID, true); err != nil {
				return err
			}
			p.Flagged = true
			flaggedNow = true
		}
		post = p
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("report_post")
		return nil, fmt.Errorf("report post %d: %w", postID, err)
	}

	uc.metrics.RecordReport(flaggedNow)
	if flaggedNow {
		uc.logger.Info("post flagged", "post_id", postID, "reports", post.ReportCount)
		uc.publish(domain.ModerationEvent{
			Type:          domain.EventPostFlagged,
			PostID:        postID,
			ParticipantID: post.CreatorID,
		})
	}
	return post, nil
}

func (uc *DefaultModerationUsecase) GetPost(ctx context.Context, postID uint64) (*domain.Post, error) {
	var post *domain.Post
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		p, err := repos.Posts.GetPost(ctx, postID)
		post = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}
