package models

import "time"

type BalanceModel struct {
	ParticipantID string `gorm:"primaryKey"`
	Available     uint64
	Locked        uint64
	UpdatedAt     time.Time
}

func (BalanceModel) TableName() string { return "balances" }

type LedgerEntryModel struct {
	ID        string `gorm:"primaryKey"`
	Type      string
	FromID    string `gorm:"index"`
	ToID      string `gorm:"index"`
	Amount    uint64
	Reference string
	CreatedAt time.Time
}

func (LedgerEntryModel) TableName() string { return "ledger_entries" }
