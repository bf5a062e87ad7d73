package domain

import (
	"context"
	"time"
)

type Post struct {
	ID          uint64
	CreatorID   string
	ReportCount uint64
	Flagged     bool
	// FlagCleared is set once an approved dispute lifts the flag; reports never
	// flag the post again after that.
	FlagCleared bool
	CreatedAt   time.Time
}

// PostRegistry is the part of the post store the dispute core consumes.
type PostRegistry interface {
	IsFlagged(ctx context.Context, postID uint64) (bool, error)
	// SetFlagged(false) also marks the flag as cleared.
	SetFlagged(ctx context.Context, postID uint64, flagged bool) error
	GetCreator(ctx context.Context, postID uint64) (string, error)
}

type PostRepository interface {
	PostRegistry
	CreatePost(ctx context.Context, post *Post) error
	// GetPost locks the post row for the rest of the unit of work where the store supports it.
	GetPost(ctx context.Context, postID uint64) (*Post, error)
	// AddReport returns ErrAlreadyReported when reporter already reported the post.
	AddReport(ctx context.Context, postID uint64, reporterID string) (uint64, error)
}
