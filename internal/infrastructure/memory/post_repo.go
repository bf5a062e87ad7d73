package memory

import (
	"context"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

type postRepo struct {
	tx *tx
}

func (r *postRepo) record(postID uint64) (*postRecord, error) {
	rec, ok := r.tx.store.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return rec, nil
}

func (r *postRepo) CreatePost(_ context.Context, post *domain.Post) error {
	s := r.tx.store
	s.lastPostID++
	post.ID = s.lastPostID
	s.posts[post.ID] = &postRecord{post: *post, reporters: make(map[string]struct{})}
	id := post.ID
	r.tx.onRollback(func() {
		delete(s.posts, id)
		s.lastPostID--
	})
	return nil
}

func (r *postRepo) GetPost(_ context.Context, postID uint64) (*domain.Post, error) {
	rec, err := r.record(postID)
	if err != nil {
		return nil, err
	}
	post := rec.post
	return &post, nil
}

func (r *postRepo) AddReport(_ context.Context, postID uint64, reporterID string) (uint64, error) {
	rec, err := r.record(postID)
	if err != nil {
		return 0, err
	}
	if _, ok := rec.reporters[reporterID]; ok {
		return rec.post.ReportCount, domain.ErrAlreadyReported
	}
	rec.reporters[reporterID] = struct{}{}
	rec.post.ReportCount++
	r.tx.onRollback(func() {
		delete(rec.reporters, reporterID)
		rec.post.ReportCount--
	})
	return rec.post.ReportCount, nil
}

func (r *postRepo) IsFlagged(_ context.Context, postID uint64) (bool, error) {
	rec, err := r.record(postID)
	if err != nil {
		return false, err
	}
	return rec.post.Flagged, nil
}

func (r *postRepo) SetFlagged(_ context.Context, postID uint64, flagged bool) error {
	rec, err := r.record(postID)
	if err != nil {
		return err
	}
	prevFlagged, prevCleared := rec.post.Flagged, rec.post.FlagCleared
	rec.post.Flagged = flagged
	if !flagged {
		rec.post.FlagCleared = true
	}
	r.tx.onRollback(func() {
		rec.post.Flagged = prevFlagged
		rec.post.FlagCleared = prevCleared
	})
	return nil
}

func (r *postRepo) GetCreator(_ context.Context, postID uint64) (string, error) {
	rec, err := r.record(postID)
	if err != nil {
		return "", err
	}
	return rec.post.CreatorID, nil
}
