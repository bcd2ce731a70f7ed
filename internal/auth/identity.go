// ABOUTME: Request-scoped caller identity carried through context.Context
// ABOUTME: Provides WithIdentity/FromContext and the Resolve gate used by content services

package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when no identity can be resolved for a request.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the authenticated caller.
type Identity struct {
	UserID    string // stable user ID, the owner key for every row
	Email     string
	SessionID string // empty when authenticated with a bearer token
}

// identityContextKey is the key type for storing Identity in context.Context.
type identityContextKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// Resolve returns the caller's Identity or ErrUnauthorized.
// An Identity with an empty UserID counts as absent.
func Resolve(ctx context.Context) (*Identity, error) {
	id := FromContext(ctx)
	if id == nil || id.UserID == "" {
		return nil, ErrUnauthorized
	}
	return id, nil
}
