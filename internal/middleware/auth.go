package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/DCParty/senior-scheduler/internal/auth"
	"github.com/DCParty/senior-scheduler/internal/rpc"
)

type ctxKey string

const OwnerIDKey ctxKey = "owner"

// skip auth for these
var open = map[string]bool{
	rpc.MethodRegister: true,
	rpc.MethodSignIn:   true,
}

// OwnerFromContext returns the authenticated owner id set by the
// interceptors.
func OwnerFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(OwnerIDKey).(string)
	return v, ok
}

func ownerFromMetadata(ctx context.Context, secret string) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}

	// token from authorization: Bearer <jwt>
	raw := ""
	if vals := md.Get("authorization"); len(vals) > 0 {
		raw = strings.TrimPrefix(vals[0], "Bearer ")
	}
	if raw == "" {
		return "", status.Error(codes.Unauthenticated, "no token")
	}

	claims, err := auth.ParseToken(raw, secret)
	if err != nil {
		return "", status.Error(codes.Unauthenticated, "bad token")
	}
	return claims.OwnerID, nil
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}
		owner, err := ownerFromMetadata(ctx, secret)
		if err != nil {
			return nil, err
		}
		return next(context.WithValue(ctx, OwnerIDKey, owner), req)
	}
}

// StreamAuth guards the live-query stream the same way Auth guards the
// unary methods.
func StreamAuth(secret string) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) error {
		owner, err := ownerFromMetadata(ss.Context(), secret)
		if err != nil {
			return err
		}
		return next(srv, &ownerStream{
			ServerStream: ss,
			ctx:          context.WithValue(ss.Context(), OwnerIDKey, owner),
		})
	}
}

type ownerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *ownerStream) Context() context.Context { return s.ctx }
