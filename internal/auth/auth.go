// Package auth authenticates API callers.  Credentials come from a Provider
// chosen at startup: the built-in account list or the users table.
package auth

import (
	"context"
	"errors"
	"slices"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ErrInvalidCredentials is returned for an unknown user, a wrong password
// or a disabled account; callers cannot tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Principal is an authenticated caller.
type Principal struct {
	Name  string
	Roles []string
}

// HasAnyRole reports whether p holds at least one of roles.
func (p Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// Provider checks a username and password.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (Principal, error)
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorName returns the principal name in ctx or "anonymous".
func ActorName(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.Name
	}
	return "anonymous"
}
