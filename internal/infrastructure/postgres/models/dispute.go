package models

import "time"

type DisputeModel struct {
	ID           string `gorm:"primaryKey"`
	PostID       uint64
	Disputant    string
	Reason       string
	Status       string
	Outcome      string
	DisputeStake uint64
	VoteStake    uint64
	OpenedAt     time.Time
	ResolvedAt   *time.Time
	Voters       []DisputeVoterModel `gorm:"foreignKey:DisputeID;references:ID"`
}

func (DisputeModel) TableName() string { return "disputes" }

type DisputeVoterModel struct {
	DisputeID     string `gorm:"primaryKey"`
	ParticipantID string `gorm:"primaryKey"`
	// Position keeps allocation order.
	Position    int
	Vote        *string
	AllocatedAt time.Time
	VotedAt     *time.Time
}

func (DisputeVoterModel) TableName() string { return "dispute_voters" }
