package auth

import (
	"context"
	"strings"
)

// Principal is the authenticated caller as reported by the identity
// provider. Services receive it explicitly; a nil *Principal means the
// request is unauthenticated.
type Principal struct {
	UserID    string
	FirstName string
	LastName  string
	Username  string
	Email     string
	Image     string
}

// DisplayName is "First Last", falling back to the username.
func (p *Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

type ctxKey struct{}

// WithPrincipal stores p in ctx for transports that resolve identity in
// middleware.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}
