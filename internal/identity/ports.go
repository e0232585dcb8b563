// Package identity defines the outbound port for the hosted identity
// provider. The provider owns credentials, tokens and their validation;
// this codebase only consumes the request/response contract below.
package identity

import (
	"context"
	"errors"
)

// Identity is the opaque handle for a signed-in user. Token is the
// provider's session token and is never interpreted locally.
type Identity struct {
	UserID string
	Email  string
	Token  string
}

// Provider error categories. Adapters map provider-specific codes onto
// these; nothing above the adapter sees a raw provider error.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrEmailInUse      = errors.New("email already in use")
	ErrWeakPassword    = errors.New("weak password")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrTooManyRequests = errors.New("too many requests")
	ErrSessionExpired  = errors.New("session expired")
)

type Provider interface {
	// SignUp registers a new account and signs it in.
	SignUp(ctx context.Context, email, password string) (Identity, error)

	// SignIn exchanges credentials for an identity.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// SendPasswordReset asks the provider to mail a reset link.
	SendPasswordReset(ctx context.Context, email string) error

	// ChangePassword re-authenticates with the current password, then sets
	// the new one. Returns the refreshed identity.
	ChangePassword(ctx context.Context, ident Identity, currentPassword, newPassword string) (Identity, error)
}
