package auth

import (
	"context"
	"slices"
	"strings"
)

// RoleAdmin grants access to every reservation and to the admin dashboard.
const RoleAdmin = "ADMIN"

// Identity is the caller as seen by the application services. The zero value is an
// anonymous caller.
type Identity struct {
	UserID    string
	SessionID string
	Email     string
	Roles     []string
}

// Authenticated reports whether the caller presented a valid token.
func (i Identity) Authenticated() bool {
	return strings.TrimSpace(i.UserID) != ""
}

// HasRole reports whether the caller carries role, ignoring case.
func (i Identity) HasRole(role string) bool {
	role = strings.ToUpper(strings.TrimSpace(role))
	return slices.Contains(i.Roles, role)
}

// IsAdmin reports whether the caller is an authenticated administrator.
func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.HasRole(RoleAdmin)
}

type identityKey struct{}

// WithIdentity stores the caller identity on ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored on ctx, or the anonymous identity.
func IdentityFrom(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityKey{}).(Identity); ok {
		return identity
	}
	return Identity{}
}
