package auth

import (
	"context"
	"errors"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
)

// ErrNoClaimsFound means a handler expected gate-attached claims but the
// request context carries none, i.e. the route was mounted outside the gate.
var ErrNoClaimsFound = errors.New("no claims found in request context")

// unexported, collision-proof context key
type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the claims attached by the gate.
func ClaimsFromContext(ctx context.Context) (token.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey{}).(token.Claims)
	if !ok {
		return token.Claims{}, ErrNoClaimsFound
	}
	return claims, nil
}
