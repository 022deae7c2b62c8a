package userctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Principal is the authenticated caller resolved by the auth middleware.
type Principal struct {
	UserID snowflake.ID
	Role   int
}

type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if set.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// UserIDFromContext returns the authenticated user id, if set.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == 0 {
		return 0, false
	}
	return p.UserID, true
}
