// Package context provides request-scoped values extraction.
// The acting user always travels through explicit context, never through
// global state: core operations receive ids as parameters supplied by the
// HTTP layer.
package context

import (
	"context"
)

// Roles known to the service.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID     string
	Email      string
	FullName   string
	Role       string
	LocationID string // assigned distribution point; empty for admins
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetLocationID returns the acting user's assigned location or empty string.
func GetLocationID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.LocationID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == role
}
