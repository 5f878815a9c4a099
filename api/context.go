package api

import (
	"context"

	"github.com/rpupo63/blog-platform/identity"
)

type keyType string

const (
	claimsKey keyType = "claims"
)

// ctxWithClaims adds verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *identity.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the claims placed by the session middleware. Only
// routes behind authenticate may call it.
func ctxGetClaims(ctx context.Context) (*identity.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*identity.Claims)
	return claims, ok && claims != nil
}
