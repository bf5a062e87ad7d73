package grpcapi

import (
	"fmt"
	"math"
	"strconv"
	"time"

	balancedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/balance"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// uintField accepts a JSON number or a decimal string, the latter for values
// above 2^53.
func uintField(in *structpb.Struct, key string) (uint64, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", key)
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
}

func boolField(in *structpb.Struct, key string) (bool, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "%s must be a boolean", key)
	}
	return b.BoolValue, nil
}

func stringField(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// formatUint keeps integers exact once they no longer fit a float64 mantissa.
func formatUint(n uint64) interface{} {
	if n > 1<<53 {
		return strconv.FormatUint(n, 10)
	}
	return float64(n)
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

func postToStruct(post *domain.Post) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"post_id":      formatUint(post.ID),
		"creator_id":   post.CreatorID,
		"report_count": formatUint(post.ReportCount),
		"flagged":      post.Flagged,
		"created_at":   formatTime(post.CreatedAt),
	})
}

func disputeToStruct(d *disputedto.DisputeOutput) (*structpb.Struct, error) {
	voters := make([]interface{}, len(d.Voters))
	for i, voter := range d.Voters {
		voters[i] = voter
	}
	return newStruct(map[string]interface{}{
		"dispute_id":     d.DisputeID,
		"post_id":        formatUint(d.PostID),
		"disputant":      d.Disputant,
		"reason":         d.Reason,
		"status":         string(d.Status),
		"outcome":        string(d.Outcome),
		"voters":         voters,
		"approve_count":  d.ApproveCount,
		"reject_count":   d.RejectCount,
		"quorum_reached": d.QuorumReached,
		"opened_at":      formatTime(d.OpenedAt),
		"resolvable_at":  formatTime(d.ResolvableAt),
		"resolved_at":    formatTime(d.ResolvedAt),
	})
}

func resolutionToStruct(r *disputedto.ResolutionOutput) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"dispute_id":        r.DisputeID,
		"post_id":           formatUint(r.PostID),
		"outcome":           string(r.Outcome),
		"approve_count":     r.ApproveCount,
		"reject_count":      r.RejectCount,
		"reward_per_winner": formatUint(r.RewardPerWinner),
		"unclaimed":         formatUint(r.Unclaimed),
		"post_flagged":      r.PostFlagged,
		"resolved_at":       formatTime(r.ResolvedAt),
	})
}

func balanceToStruct(b *balancedto.BalanceOutput) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"participant_id": b.ParticipantID,
		"available":      formatUint(b.Available),
		"locked":         formatUint(b.Locked),
	})
}
