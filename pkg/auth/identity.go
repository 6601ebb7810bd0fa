// Package auth issues and verifies bearer tokens and carries the resolved
// caller through the request context.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is the authenticated caller. Services receive it as an explicit
// argument; handlers read it from the request context.
type Identity struct {
	UserID  uint
	TokenID string
	Roles   []string
}

// Resolver turns a raw bearer token into an Identity. Implementations must
// reject tokens whose backing record has been revoked.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the Identity stored by the Auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != 0
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
