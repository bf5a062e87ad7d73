package grpcapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-moderation-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const participantHeader = "x-participant-id"

type callerKey struct{}

func withCaller(ctx context.Context, participantID string) context.Context {
	return context.WithValue(ctx, callerKey{}, participantID)
}

// CallerFromContext returns the authenticated participant of the current call.
func CallerFromContext(ctx context.Context) (string, bool) {
	participantID, ok := ctx.Value(callerKey{}).(string)
	return participantID, ok && participantID != ""
}

// Authenticator resolves the calling participant from request metadata. With a
// secret it requires an HS256 bearer token whose subject is the participant;
// without one it trusts the x-participant-id header set by the gateway.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate also refuses ids reserved for system accounts, whichever way
// they were presented.
func (a *Authenticator) Authenticate(ctx context.Context) (string, error) {
	participantID, err := a.participant(ctx)
	if err != nil {
		return "", err
	}
	if err := domain.CheckParticipant(participantID); err != nil {
		return "", status.Error(codes.PermissionDenied, err.Error())
	}
	return participantID, nil
}

func (a *Authenticator) participant(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if len(a.secret) == 0 {
		values := md.Get(participantHeader)
		if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return "", status.Errorf(codes.Unauthenticated, "missing %s metadata", participantHeader)
		}
		return strings.TrimSpace(values[0]), nil
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	raw, found := strings.CutPrefix(values[0], "Bearer ")
	if !found {
		return "", status.Error(codes.Unauthenticated, "authorization must be a bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", status.Error(codes.Unauthenticated, fmt.Sprintf("invalid token: %v", err))
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", status.Error(codes.Unauthenticated, "token has no subject")
	}
	return subject, nil
}

func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		participantID, err := a.Authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(withCaller(ctx, participantID), req)
	}
}
