package http

import (
	"context"

	"equiphire-backend/internal/security"
)

type contextKey struct{}

var claimsKey contextKey

// WithClaims attaches validated actor claims to the request context.
func WithClaims(ctx context.Context, claims *security.ActorClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the actor claims stored by the auth middleware.
func ClaimsFrom(ctx context.Context) (*security.ActorClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.ActorClaims)
	return claims, ok
}
