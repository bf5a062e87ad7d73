package mappers

import (
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/postgres/models"
)

func ToDomainBalance(model *models.BalanceModel) *domain.Balance {
	return &domain.Balance{
		ParticipantID: model.ParticipantID,
		Available:     model.Available,
		Locked:        model.Locked,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMLedgerEntry(entry *domain.LedgerEntry) *models.LedgerEntryModel {
	return &models.LedgerEntryModel{
		ID:        entry.ID,
		Type:      string(entry.Type),
		FromID:    entry.From,
		ToID:      entry.To,
		Amount:    entry.Amount,
		Reference: entry.Reference,
		CreatedAt: entry.CreatedAt,
	}
}

func ToDomainLedgerEntry(model *models.LedgerEntryModel) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:        model.ID,
		Type:      domain.LedgerEntryType(model.Type),
		From:      model.FromID,
		To:        model.ToID,
		Amount:    model.Amount,
		Reference: model.Reference,
		CreatedAt: model.CreatedAt,
	}
}
