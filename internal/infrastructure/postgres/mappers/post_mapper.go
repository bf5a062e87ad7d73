package mappers

import (
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
)

func ToDomainPost(model *models.PostModel) *domain.Post {
	return &domain.Post{
		ID:          model.ID,
		CreatorID:   model.CreatorID,
		ReportCount: model.ReportCount,
		Flagged:     model.Flagged,
		FlagCleared: model.FlagCleared,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMPost(post *domain.Post) *models.PostModel {
	return &models.PostModel{
		ID:          post.ID,
		CreatorID:   post.CreatorID,
		ReportCount: post.ReportCount,
		Flagged:     post.Flagged,
		FlagCleared: post.FlagCleared,
		CreatedAt:   post.CreatedAt,
	}
}
