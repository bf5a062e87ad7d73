package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

// CreateDispute maps a violation of the one-open-dispute-per-post index to ErrDisputeAlreadyOpen.
func (r *DefaultDisputeRepository) CreateDispute(ctx context.Context, dispute *domain.Dispute) error {
	disputeModel := mappers.ToGORMDispute(dispute)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(disputeModel).Error
	})
	if isUniqueViolation(err) {
		return domain.ErrDisputeAlreadyOpen
	}
	return err
}

func (r *DefaultDisputeRepository) GetOpenDisputeByPostID(ctx context.Context, postID uint64) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("post_id = ? AND status = ?", postID, string(domain.DisputeOpen)).
		First(&disputeModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadVoters(ctx, &disputeModel); err != nil {
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetLatestDisputeByPostID(ctx context.Context, postID uint64) (*domain.Dispute, error) {
	if dispute, err := r.GetOpenDisputeByPostID(ctx, postID); !errors.Is(err, domain.ErrDisputeNotFound) {
		return dispute, err
	}

	var disputeModel models.DisputeModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("opened_at DESC").
		First(&disputeModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadVoters(ctx, &disputeModel); err != nil {
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) loadVoters(ctx context.Context, disputeModel *models.DisputeModel) error {
	return r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeModel.ID).
		Order("position ASC").
		Find(&disputeModel.Voters).Error
}

func (r *DefaultDisputeRepository) lockOpen(ctx context.Context, disputeID string) error {
	var disputeModel models.DisputeModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "status").
		Where("id = ?", disputeID).
		First(&disputeModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrDisputeNotFound
	}
	if err != nil {
		return err
	}
	if disputeModel.Status != string(domain.DisputeOpen) {
		return domain.ErrDisputeNotOpen
	}
	return nil
}

func (r *DefaultDisputeRepository) AddVoter(ctx context.Context, disputeID, participantID string) error {
	if err := r.lockOpen(ctx, disputeID); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	var position int64
	if err := db.Model(&models.DisputeVoterModel{}).Where("dispute_id = ?", disputeID).Count(&position).Error; err != nil {
		return err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models.DisputeVoterModel{
			DisputeID:     disputeID,
			ParticipantID: participantID,
			Position:      int(position),
			AllocatedAt:   time.Now().UTC(),
		}).Error
	})
	if isUniqueViolation(err) {
		return domain.ErrAlreadyAllocated
	}
	return err
}

func (r *DefaultDisputeRepository) RecordVote(ctx context.Context, disputeID, participantID string, choice domain.VoteChoice) error {
	if err := r.lockOpen(ctx, disputeID); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	vote := string(choice)
	result := db.Model(&models.DisputeVoterModel{}).
		Where("dispute_id = ? AND participant_id = ? AND vote IS NULL", disputeID, participantID).
		Updates(map[string]interface{}{
			"vote":     vote,
			"voted_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var allocated int64
	if err := db.Model(&models.DisputeVoterModel{}).
		Where("dispute_id = ? AND participant_id = ?", disputeID, participantID).
		Count(&allocated).Error; err != nil {
		return err
	}
	if allocated == 0 {
		return domain.ErrNotAllocated
	}
	return domain.ErrAlreadyVoted
}

func (r *DefaultDisputeRepository) ResolveDispute(ctx context.Context, disputeID string, outcome domain.DisputeOutcome, resolvedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, string(domain.DisputeOpen)).
		Updates(map[string]interface{}{
			"status":      string(domain.DisputeResolved),
			"outcome":     string(outcome),
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDisputeNotOpen
	}
	return nil
}

func (r *DefaultDisputeRepository) FindOpenDisputes(ctx context.Context) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	if err := r.db.WithContext(ctx).
		Preload("Voters", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ?", string(domain.DisputeOpen)).
		Order("opened_at ASC").
		Find(&disputeModels).Error; err != nil {
		return nil, err
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, nil
}
