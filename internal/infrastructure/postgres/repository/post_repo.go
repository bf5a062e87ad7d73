package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPostRepository struct {
	db *gorm.DB
}

func NewDefaultPostRepository(db *gorm.DB) *DefaultPostRepository {
	return &DefaultPostRepository{db: db}
}

func (r *DefaultPostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	postModel := mappers.ToGORMPost(post)
	postModel.ID = 0
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}
	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	return nil
}

func (r *DefaultPostRepository) GetPost(ctx context.Context, postID uint64) (*domain.Post, error) {
	var postModel models.PostModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).
		First(&postModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPost(&postModel), nil
}

// AddReport relies on the (post_id, reporter_id) primary key to reject a second report.
func (r *DefaultPostRepository) AddReport(ctx context.Context, postID uint64, reporterID string) (uint64, error) {
	post, err := r.GetPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	db := r.db.WithContext(ctx)
	// SAVEPOINT keeps the outer transaction usable after a duplicate insert.
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models.PostReportModel{PostID: postID, ReporterID: reporterID}).Error
	})
	if isUniqueViolation(err) {
		return post.ReportCount, domain.ErrAlreadyReported
	}
	if err != nil {
		return 0, err
	}

	count := post.ReportCount + 1
	if err := db.Model(&models.PostModel{}).
		Where("id = ?", postID).
		Update("report_count", count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DefaultPostRepository) IsFlagged(ctx context.Context, postID uint64) (bool, error) {
	var postModel models.PostModel
	err := r.db.WithContext(ctx).Select("id", "flagged").Where("id = ?", postID).First(&postModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, domain.ErrPostNotFound
	}
	if err != nil {
		return false, err
	}
	return postModel.Flagged, nil
}

func (r *DefaultPostRepository) SetFlagged(ctx context.Context, postID uint64, flagged bool) error {
	updates := map[string]interface{}{"flagged": flagged}
	if !flagged {
		updates["flag_cleared"] = true
	}
	result := r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", postID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *DefaultPostRepository) GetCreator(ctx context.Context, postID uint64) (string, error) {
	var postModel models.PostModel
	err := r.db.WithContext(ctx).Select("id", "creator_id").Where("id = ?", postID).First(&postModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrPostNotFound
	}
	if err != nil {
		return "", err
	}
	return postModel.CreatorID, nil
}
