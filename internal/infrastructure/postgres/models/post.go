package models

import "time"

type PostModel struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	CreatorID   string
	ReportCount uint64
	Flagged     bool
	FlagCleared bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PostModel) TableName() string { return "posts" }

type PostReportModel struct {
	PostID     uint64 `gorm:"primaryKey"`
	ReporterID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}

func (PostReportModel) TableName() string { return "post_reports" }
