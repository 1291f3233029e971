package auth

import (
	"context"

	"connectrpc.com/connect"
)

// LocalDevUserID is the identity every unauthenticated local request runs as.
const LocalDevUserID = "local-dev-user"

// LocalDevInterceptor provides a mock user context for local development.
// Claims set by an earlier interceptor win.
func LocalDevInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if isPublicEndpoint(req.Spec().Procedure) {
				return next(ctx, req)
			}
			if _, ok := GetUserClaims(ctx); ok {
				return next(ctx, req)
			}

			ctx = withUserClaims(ctx, &UserClaims{
				UID:         LocalDevUserID,
				Email:       "dev@localhost",
				DisplayName: "Local Dev User",
				Verified:    true,
			})
			return next(ctx, req)
		}
	}
}
