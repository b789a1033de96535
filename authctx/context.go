// Package authctx carries the validated-identity record for a single
// in-flight request.
//
// The record rides on the request's context.Context, so isolation across
// concurrent requests is automatic — there is no shared "current user"
// field anywhere in the process. Absence is modeled as absence: Get returns
// false for a request that presented no valid token, never a placeholder.
//
// Usage:
//
//	// Install (in the authentication pipeline)
//	ctx = authctx.Set(ctx, auth)
//
//	// Retrieve (in handlers)
//	auth, ok := authctx.Get(ctx)
package authctx

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var authKey = contextKey{}

// Auth is the authentication context installed after a token has been
// verified and its subject resolved to an active principal. Authorities is
// the normalized role set consulted by the authorization evaluator;
// RemoteAddr and RequestID are diagnostic facts captured at install time.
type Auth struct {
	PrincipalID uuid.UUID
	Subject     string
	Authorities []string
	RemoteAddr  string
	RequestID   string
}

// HasAuthority reports whether the context carries the given authority tag.
func (a *Auth) HasAuthority(authority string) bool {
	for _, g := range a.Authorities {
		if g == authority {
			return true
		}
	}
	return false
}

// Set installs the authentication context on the request context.
func Set(ctx context.Context, a *Auth) context.Context {
	return context.WithValue(ctx, authKey, a)
}

// Get retrieves the authentication context.
// Returns nil and false when no validated identity is present.
func Get(ctx context.Context) (*Auth, bool) {
	a, ok := ctx.Value(authKey).(*Auth)
	if !ok || a == nil {
		return nil, false
	}
	return a, true
}

// MustGet retrieves the authentication context.
// Panics if absent — use only behind a guard that requires authentication.
func MustGet(ctx context.Context) *Auth {
	a, ok := Get(ctx)
	if !ok {
		panic("authctx: no authentication context installed")
	}
	return a
}

// ErrNoAuth is returned when no authentication context is installed.
var ErrNoAuth = errors.New("authctx: no authentication context")

// GetOrError retrieves the authentication context.
// Returns ErrNoAuth when absent.
func GetOrError(ctx context.Context) (*Auth, error) {
	a, ok := Get(ctx)
	if !ok {
		return nil, ErrNoAuth
	}
	return a, nil
}
