package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{domain.ErrInvalidAmount, codes.InvalidArgument},
	{domain.ErrInvalidParticipant, codes.InvalidArgument},

	{domain.ErrPostNotFound, codes.NotFound},
	{domain.ErrDisputeNotFound, codes.NotFound},

	{domain.ErrDisputeAlreadyOpen, codes.AlreadyExists},
	{domain.ErrAlreadyAllocated, codes.AlreadyExists},
	{domain.ErrAlreadyVoted, codes.AlreadyExists},
	{domain.ErrAlreadyReported, codes.AlreadyExists},

	{domain.ErrSelfAllocation, codes.PermissionDenied},
	{domain.ErrNotAllocated, codes.PermissionDenied},
	{domain.ErrNotPostCreator, codes.PermissionDenied},
	{domain.ErrReservedParticipant, codes.PermissionDenied},

	{domain.ErrInsufficientBalance, codes.FailedPrecondition},
	{domain.ErrInsufficientLocked, codes.FailedPrecondition},
	{domain.ErrNotFlagged, codes.FailedPrecondition},
	{domain.ErrNoOpenDispute, codes.FailedPrecondition},
	{domain.ErrDisputeNotOpen, codes.FailedPrecondition},

	{domain.ErrWindowNotElapsed, codes.Unavailable},

	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
}

// toStatus keeps the wrapped message so callers see which participant or
// post the failure concerns.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}
