package grpcapi_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/shvark-moderation-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-moderation-service/internal/usecase/moderation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var testParams = moderation.Params{
	MaxReportCount:   4,
	MinVoteCount:     8,
	OpenDisputeStake: 1000,
	VoteStake:        100,
	MinVotingPeriod:  24 * time.Hour,
}

func startServer(t *testing.T, secret string) (*grpc.ClientConn, *memory.Vault) {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	vault := memory.NewVault()
	uc := moderation.NewDefaultModerationUsecase(memory.NewStore(), vault, nil, nil, testParams, moderation.WithLogger(discard))

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcapi.NewAuthenticator(secret).UnaryInterceptor()))
	grpcapi.RegisterModerationServiceServer(server, grpcapi.NewModerationHandler(uc, discard))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, vault
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, grpcapi.FullMethod(method), in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func as(participantID string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-participant-id", participantID)
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), err.Error())
}

func TestModerationHandler_DisputeFlow(t *testing.T) {
	conn, vault := startServer(t, "")

	post, err := invoke(as("creator"), conn, "CreatePost", nil)
	require.NoError(t, err)
	postID := post.Fields["post_id"].GetNumberValue()
	assert.Equal(t, "creator", post.Fields["creator_id"].GetStringValue())

	for _, reporter := range []string{"r0", "r1", "r2", "r3"} {
		_, err := invoke(as(reporter), conn, "ReportPost", map[string]any{"post_id": postID})
		require.NoError(t, err)
	}
	_, err = invoke(as("r0"), conn, "ReportPost", map[string]any{"post_id": postID})
	requireCode(t, err, codes.AlreadyExists)

	post, err = invoke(as("anyone"), conn, "GetPost", map[string]any{"post_id": postID})
	require.NoError(t, err)
	assert.True(t, post.Fields["flagged"].GetBoolValue())

	_, err = invoke(as("creator"), conn, "OpenDispute", map[string]any{"post_id": postID, "reason": "parody"})
	requireCode(t, err, codes.FailedPrecondition)

	_, err = invoke(as("creator"), conn, "Deposit", map[string]any{"amount": 1000})
	requireCode(t, err, codes.FailedPrecondition)

	vault.Fund("creator", 1000)
	balance, err := invoke(as("creator"), conn, "Deposit", map[string]any{"amount": 1000})
	require.NoError(t, err)
	assert.Equal(t, float64(1000), balance.Fields["available"].GetNumberValue())

	dispute, err := invoke(as("creator"), conn, "OpenDispute", map[string]any{"post_id": postID, "reason": "parody"})
	require.NoError(t, err)
	assert.Equal(t, "OPEN", dispute.Fields["status"].GetStringValue())
	assert.Equal(t, "parody", dispute.Fields["reason"].GetStringValue())
	assert.NotEmpty(t, dispute.Fields["dispute_id"].GetStringValue())

	_, err = invoke(as("creator"), conn, "OpenDispute", map[string]any{"post_id": postID})
	requireCode(t, err, codes.AlreadyExists)

	_, err = invoke(as("creator"), conn, "Allocate", map[string]any{"post_id": postID})
	requireCode(t, err, codes.PermissionDenied)

	_, err = invoke(as("juror"), conn, "Vote", map[string]any{"post_id": postID, "approve": true})
	requireCode(t, err, codes.PermissionDenied)

	vault.Fund("juror", 100)
	_, err = invoke(as("juror"), conn, "Deposit", map[string]any{"amount": 100})
	require.NoError(t, err)
	dispute, err = invoke(as("juror"), conn, "AllocateAny", nil)
	require.NoError(t, err)
	assert.Equal(t, postID, dispute.Fields["post_id"].GetNumberValue())

	allocated, err := invoke(as("juror"), conn, "GetAllocatedDispute", nil)
	require.NoError(t, err)
	assert.Equal(t, dispute.Fields["dispute_id"].GetStringValue(), allocated.Fields["dispute_id"].GetStringValue())

	_, err = invoke(as("juror"), conn, "Vote", map[string]any{"post_id": postID, "approve": true})
	require.NoError(t, err)

	_, err = invoke(as("juror"), conn, "Resolve", map[string]any{"post_id": postID})
	requireCode(t, err, codes.Unavailable)

	balance, err = invoke(as("auditor"), conn, "GetBalance", map[string]any{"participant_id": "creator"})
	require.NoError(t, err)
	assert.Equal(t, float64(1000), balance.Fields["locked"].GetNumberValue())
	assert.Equal(t, float64(0), balance.Fields["available"].GetNumberValue())

	got, err := invoke(as("auditor"), conn, "GetDispute", map[string]any{"post_id": postID})
	require.NoError(t, err)
	assert.Len(t, got.Fields["voters"].GetListValue().GetValues(), 1)
	assert.Equal(t, float64(1), got.Fields["approve_count"].GetNumberValue())
}

func TestModerationHandler_RequestErrors(t *testing.T) {
	conn, _ := startServer(t, "")

	_, err := invoke(context.Background(), conn, "CreatePost", nil)
	requireCode(t, err, codes.Unauthenticated)

	_, err = invoke(as("alice"), conn, "GetPost", map[string]any{"post_id": 404})
	requireCode(t, err, codes.NotFound)

	_, err = invoke(as("alice"), conn, "GetPost", nil)
	requireCode(t, err, codes.InvalidArgument)

	_, err = invoke(as("alice"), conn, "GetPost", map[string]any{"post_id": 1.5})
	requireCode(t, err, codes.InvalidArgument)

	_, err = invoke(as("alice"), conn, "Vote", map[string]any{"post_id": 1, "approve": "yes"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = invoke(as("alice"), conn, "Deposit", map[string]any{"amount": 0})
	requireCode(t, err, codes.InvalidArgument)

	_, err = invoke(as("alice"), conn, "Resolve", map[string]any{"post_id": 1})
	requireCode(t, err, codes.FailedPrecondition)
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func bearer(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestModerationHandler_JWTAuthentication(t *testing.T) {
	const secret = "s3cret"
	conn, _ := startServer(t, secret)

	post, err := invoke(bearer(signToken(t, secret, "alice", time.Hour)), conn, "CreatePost", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", post.Fields["creator_id"].GetStringValue())

	_, err = invoke(bearer(signToken(t, "other", "alice", time.Hour)), conn, "CreatePost", nil)
	requireCode(t, err, codes.Unauthenticated)

	_, err = invoke(bearer(signToken(t, secret, "alice", -time.Minute)), conn, "CreatePost", nil)
	requireCode(t, err, codes.Unauthenticated)

	// The header fallback is disabled once a secret is set.
	_, err = invoke(as("alice"), conn, "CreatePost", nil)
	requireCode(t, err, codes.Unauthenticated)
}

func TestModerationHandler_RejectsSystemAccountCaller(t *testing.T) {
	conn, _ := startServer(t, "")
	_, err := invoke(as(domain.RewardPoolAccount), conn, "Allocate", map[string]any{"post_id": 1})
	requireCode(t, err, codes.PermissionDenied)

	const secret = "s3cret"
	jwtConn, _ := startServer(t, secret)
	_, err = invoke(bearer(signToken(t, secret, domain.RewardPoolAccount, time.Hour)), jwtConn, "CreatePost", nil)
	requireCode(t, err, codes.PermissionDenied)
}
