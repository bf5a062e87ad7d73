package disputedto

import (
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
)

// DisputeOutput is the read-only view of a dispute handed to callers.
type DisputeOutput struct {
	DisputeID     string
	PostID        uint64
	Disputant     string
	Reason        string
	Status        domain.DisputeStatus
	Outcome       domain.DisputeOutcome
	Voters        []string
	ApproveCount  int
	RejectCount   int
	QuorumReached bool
	OpenedAt      time.Time
	ResolvableAt  time.Time
	ResolvedAt    time.Time
}

type ResolutionOutput struct {
	DisputeID       string
	PostID          uint64
	Outcome         domain.DisputeOutcome
	ApproveCount    int
	RejectCount     int
	RewardPerWinner uint64
	Unclaimed       uint64
	PostFlagged     bool
	ResolvedAt      time.Time
}
