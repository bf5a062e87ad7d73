package domain

import "errors"

// Ledger.
var (
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInsufficientLocked  = errors.New("insufficient locked balance")
	ErrInvalidAmount       = errors.New("amount must be positive and fit a balance")
)

// State preconditions: re-check state, may retry later.
var (
	ErrNotFlagged         = errors.New("post is not flagged")
	ErrDisputeAlreadyOpen = errors.New("dispute already open for post")
	ErrNoOpenDispute      = errors.New("no open dispute")
	ErrDisputeNotOpen     = errors.New("dispute is not open")
	ErrPostNotFound       = errors.New("post not found")
	ErrDisputeNotFound    = errors.New("dispute not found")
)

// Caller misuse: not retryable with the same arguments.
var (
	ErrSelfAllocation   = errors.New("disputant cannot be allocated to own dispute")
	ErrAlreadyAllocated = errors.New("voter already allocated to dispute")
	ErrNotAllocated     = errors.New("voter is not allocated to dispute")
	ErrAlreadyVoted     = errors.New("voter already voted")
	ErrAlreadyReported  = errors.New("post already reported by participant")
	ErrNotPostCreator   = errors.New("only the post creator can dispute a flag")

	ErrInvalidParticipant  = errors.New("participant id is required")
	ErrReservedParticipant = errors.New("participant id is reserved for a system account")
)

// Time gated: retry after the voting window.
var ErrWindowNotElapsed = errors.New("minimum voting period has not elapsed")
