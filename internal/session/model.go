// Package session issues, stores and verifies admin login sessions.
//
// A session is a server-side Record keyed by an opaque random ID. The
// browser holds a signed credential naming that ID; the record itself lives
// in the Store and is the only source of truth for expiry and ownership.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/carlot/dealer-admin/internal/users"
)

var (
	// ErrUnauthenticated means the credential is absent, malformed, expired
	// or does not resolve to a user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStoreUnavailable wraps any failure talking to the session or user store.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrSessionNotFound is returned by a Store when the session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")
)

// Record is the server-side state of one login session.
type Record struct {
	ID        string     `json:"-"`
	UserID    string     `json:"user_id"`
	Role      users.Role `json:"role"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the record is no longer valid at now.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Issued is returned to the login handler after a session is created.
type Issued struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Principal is the request-scoped authentication result. User is nil when
// the request is anonymous. It is never persisted.
type Principal struct {
	User *users.User
}

// Authenticated reports whether a user is attached.
func (p Principal) Authenticated() bool {
	return p.User != nil
}

type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom extracts the Principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
