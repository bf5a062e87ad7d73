package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func seed(t *testing.T, store *memory.Store) (postID uint64, disputeID string) {
	t.Helper()
	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		post := &domain.Post{CreatorID: "creator"}
		if err := repos.Posts.CreatePost(ctx, post); err != nil {
			return err
		}
		if err := repos.Posts.SetFlagged(ctx, post.ID, true); err != nil {
			return err
		}
		dispute := &domain.Dispute{
			ID:        "d-1",
			PostID:    post.ID,
			Disputant: "creator",
			Status:    domain.DisputeOpen,
			OpenedAt:  time.Now(),
		}
		if err := repos.Disputes.CreateDispute(ctx, dispute); err != nil {
			return err
		}
		postID, disputeID = post.ID, dispute.ID
		return repos.Balances.SaveBalance(ctx, &domain.Balance{ParticipantID: "alice", Available: 100})
	}))
	return postID, disputeID
}

func TestStore_RollbackOnError(t *testing.T) {
	store := memory.NewStore()
	postID, disputeID := seed(t, store)

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		require.NoError(t, repos.Balances.SaveBalance(ctx, &domain.Balance{ParticipantID: "alice", Available: 1}))
		require.NoError(t, repos.Balances.SaveBalance(ctx, &domain.Balance{ParticipantID: "bob", Available: 99}))
		require.NoError(t, repos.Balances.AppendEntry(ctx, &domain.LedgerEntry{ID: "e1", From: "alice", To: "bob", Amount: 99}))
		require.NoError(t, repos.Posts.SetFlagged(ctx, postID, false))
		_, err := repos.Posts.AddReport(ctx, postID, "r1")
		require.NoError(t, err)
		require.NoError(t, repos.Disputes.AddVoter(ctx, disputeID, "v1"))
		require.NoError(t, repos.Disputes.RecordVote(ctx, disputeID, "v1", domain.VoteApprove))
		require.NoError(t, repos.Disputes.ResolveDispute(ctx, disputeID, domain.OutcomeApproved, time.Now()))
		require.NoError(t, repos.Posts.CreatePost(ctx, &domain.Post{CreatorID: "other"}))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		alice, err := repos.Balances.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(100), alice.Available)

		bob, err := repos.Balances.GetBalance(ctx, "bob")
		require.NoError(t, err)
		assert.Zero(t, bob.Available)

		entries, err := repos.Balances.ListEntries(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, entries)

		post, err := repos.Posts.GetPost(ctx, postID)
		require.NoError(t, err)
		assert.True(t, post.Flagged)
		assert.Zero(t, post.ReportCount)

		_, err = repos.Posts.GetPost(ctx, postID+1)
		require.ErrorIs(t, err, domain.ErrPostNotFound)

		dispute, err := repos.Disputes.GetOpenDisputeByPostID(ctx, postID)
		require.NoError(t, err)
		assert.Empty(t, dispute.Voters)
		assert.Empty(t, dispute.Votes)
		assert.Equal(t, domain.DisputeOpen, dispute.Status)
		return nil
	}))

	// The report was rolled back too, so the same reporter may report again.
	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		count, err := repos.Posts.AddReport(ctx, postID, "r1")
		assert.Equal(t, uint64(1), count)
		return err
	}))
}

func TestStore_RollbackOnPanic(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
			_ = repos.Balances.SaveBalance(ctx, &domain.Balance{ParticipantID: "alice", Available: 5})
			panic("kaboom")
		})
	})

	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		alice, err := repos.Balances.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(100), alice.Available)
		return nil
	}))
}

func TestStore_CanceledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(context.Context, domain.Repositories) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDisputeRepo_Guards(t *testing.T) {
	store := memory.NewStore()
	postID, disputeID := seed(t, store)

	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		err := repos.Disputes.CreateDispute(ctx, &domain.Dispute{ID: "d-2", PostID: postID, Status: domain.DisputeOpen})
		assert.ErrorIs(t, err, domain.ErrDisputeAlreadyOpen)

		require.NoError(t, repos.Disputes.AddVoter(ctx, disputeID, "v1"))
		assert.ErrorIs(t, repos.Disputes.AddVoter(ctx, disputeID, "v1"), domain.ErrAlreadyAllocated)
		assert.ErrorIs(t, repos.Disputes.RecordVote(ctx, disputeID, "v2", domain.VoteReject), domain.ErrNotAllocated)
		require.NoError(t, repos.Disputes.RecordVote(ctx, disputeID, "v1", domain.VoteReject))
		assert.ErrorIs(t, repos.Disputes.RecordVote(ctx, disputeID, "v1", domain.VoteApprove), domain.ErrAlreadyVoted)

		require.NoError(t, repos.Disputes.ResolveDispute(ctx, disputeID, domain.OutcomeRejected, time.Now()))
		assert.ErrorIs(t, repos.Disputes.ResolveDispute(ctx, disputeID, domain.OutcomeRejected, time.Now()), domain.ErrDisputeNotOpen)
		assert.ErrorIs(t, repos.Disputes.AddVoter(ctx, disputeID, "v3"), domain.ErrDisputeNotOpen)

		_, err = repos.Disputes.GetOpenDisputeByPostID(ctx, postID)
		assert.ErrorIs(t, err, domain.ErrDisputeNotFound)

		latest, err := repos.Disputes.GetLatestDisputeByPostID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, disputeID, latest.ID)
		assert.Equal(t, domain.OutcomeRejected, latest.Outcome)

		// Returned disputes are copies.
		latest.Voters = append(latest.Voters, "intruder")
		again, err := repos.Disputes.GetLatestDisputeByPostID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, []string{"v1"}, again.Voters)
		return nil
	}))
}
