package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultBalanceRepository struct {
	db *gorm.DB
}

func NewDefaultBalanceRepository(db *gorm.DB) *DefaultBalanceRepository {
	return &DefaultBalanceRepository{db: db}
}

// GetBalance creates the row on first sight so that it can be locked FOR UPDATE.
func (r *DefaultBalanceRepository) GetBalance(ctx context.Context, participantID string) (*domain.Balance, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BalanceModel{ParticipantID: participantID}).Error; err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}

	var balanceModel models.BalanceModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("participant_id = ?", participantID).
		First(&balanceModel).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainBalance(&balanceModel), nil
}

func (r *DefaultBalanceRepository) SaveBalance(ctx context.Context, balance *domain.Balance) error {
	return r.db.WithContext(ctx).Model(&models.BalanceModel{}).
		Where("participant_id = ?", balance.ParticipantID).
		Updates(map[string]interface{}{
			"available":  balance.Available,
			"locked":     balance.Locked,
			"updated_at": balance.UpdatedAt,
		}).Error
}

func (r *DefaultBalanceRepository) AppendEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMLedgerEntry(entry)).Error
}

func (r *DefaultBalanceRepository) ListEntries(ctx context.Context, participantID string) ([]*domain.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("from_id = ? OR to_id = ?", participantID, participantID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*domain.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = mappers.ToDomainLedgerEntry(&entryModels[i])
	}
	return entries, nil
}
