package grpcapi

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-moderation-service/internal/usecase/moderation"
	disputedto "github.com/LavaJover/shvark-moderation-service/internal/usecase/dto/dispute"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type ModerationHandler struct {
	uc     moderation.ModerationUsecase
	logger *slog.Logger
}

func NewModerationHandler(uc moderation.ModerationUsecase, logger *slog.Logger) *ModerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModerationHandler{
		uc:     uc,
		logger: logger,
	}
}

var _ ModerationServiceServer = (*ModerationHandler)(nil)

func caller(ctx context.Context) (string, error) {
	participantID, ok := CallerFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller is not authenticated")
	}
	return participantID, nil
}

func (h *ModerationHandler) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		participantID, _ := CallerFromContext(ctx)
		h.logger.Error("moderation call failed", "method", method, "caller", participantID, "error", err.Error())
	}
	return st
}

func (h *ModerationHandler) CreatePost(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	creatorID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	post, err := h.uc.CreatePost(ctx, creatorID)
	if err != nil {
		return nil, h.fail(ctx, "CreatePost", err)
	}
	return postToStruct(post)
}

func (h *ModerationHandler) ReportPost(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	reporterID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	post, err := h.uc.ReportPost(ctx, postID, reporterID)
	if err != nil {
		return nil, h.fail(ctx, "ReportPost", err)
	}
	return postToStruct(post)
}

func (h *ModerationHandler) GetPost(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	post, err := h.uc.GetPost(ctx, postID)
	if err != nil {
		return nil, h.fail(ctx, "GetPost", err)
	}
	return postToStruct(post)
}

func (h *ModerationHandler) OpenDispute(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	disputant, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	dispute, err := h.uc.OpenDispute(ctx, &disputedto.OpenDisputeInput{
		PostID:    postID,
		Disputant: disputant,
		Reason:    stringField(r, "reason"),
	})
	if err != nil {
		return nil, h.fail(ctx, "OpenDispute", err)
	}
	return disputeToStruct(dispute)
}

func (h *ModerationHandler) Allocate(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	voterID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	dispute, err := h.uc.Allocate(ctx, postID, voterID)
	if err != nil {
		return nil, h.fail(ctx, "Allocate", err)
	}
	return disputeToStruct(dispute)
}

func (h *ModerationHandler) AllocateAny(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	voterID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	dispute, err := h.uc.AllocateAny(ctx, voterID)
	if err != nil {
		return nil, h.fail(ctx, "AllocateAny", err)
	}
	return disputeToStruct(dispute)
}

func (h *ModerationHandler) GetAllocatedDispute(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	voterID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	dispute, err := h.uc.GetAllocatedDispute(ctx, voterID)
	if err != nil {
		return nil, h.fail(ctx, "GetAllocatedDispute", err)
	}
	return disputeToStruct(dispute)
}

func (h *ModerationHandler) Vote(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	voterID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	approve, err := boolField(r, "approve")
	if err != nil {
		return nil, err
	}
	if err := h.uc.Vote(ctx, &disputedto.VoteInput{PostID: postID, Voter: voterID, Approve: approve}); err != nil {
		return nil, h.fail(ctx, "Vote", err)
	}
	return newStruct(map[string]interface{}{
		"message": "vote recorded",
	})
}

func (h *ModerationHandler) Resolve(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	resolution, err := h.uc.Resolve(ctx, postID)
	if err != nil {
		return nil, h.fail(ctx, "Resolve", err)
	}
	return resolutionToStruct(resolution)
}

func (h *ModerationHandler) GetDispute(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	postID, err := uintField(r, "post_id")
	if err != nil {
		return nil, err
	}
	dispute, err := h.uc.GetDispute(ctx, postID)
	if err != nil {
		return nil, h.fail(ctx, "GetDispute", err)
	}
	return disputeToStruct(dispute)
}

// GetBalance defaults to the caller when participant_id is omitted.
func (h *ModerationHandler) GetBalance(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	participantID := stringField(r, "participant_id")
	if participantID == "" {
		id, err := caller(ctx)
		if err != nil {
			return nil, err
		}
		participantID = id
	}
	balance, err := h.uc.GetBalance(ctx, participantID)
	if err != nil {
		return nil, h.fail(ctx, "GetBalance", err)
	}
	return balanceToStruct(balance)
}

func (h *ModerationHandler) Deposit(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	participantID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := uintField(r, "amount")
	if err != nil {
		return nil, err
	}
	balance, err := h.uc.Deposit(ctx, participantID, amount)
	if err != nil {
		return nil, h.fail(ctx, "Deposit", err)
	}
	return balanceToStruct(balance)
}

func (h *ModerationHandler) Withdraw(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	participantID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := uintField(r, "amount")
	if err != nil {
		return nil, err
	}
	balance, err := h.uc.Withdraw(ctx, participantID, amount)
	if err != nil {
		return nil, h.fail(ctx, "Withdraw", err)
	}
	return balanceToStruct(balance)
}
