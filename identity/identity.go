// Package identity wraps the identity provider: account creation,
// password sign-in and bearer token verification. Implementations keep no
// per-request state.
package identity

import (
	"context"
	"time"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password any provider accepts, counted
// in characters (runes), not bytes.
const MinPasswordLength = 6

// PasswordTooShort reports whether password has fewer than MinPasswordLength characters.
func PasswordTooShort(password string) bool {
	return utf8.RuneCountInString(password) < MinPasswordLength
}

type Identity struct {
	ID    string
	Email string
}

// Session is an authenticated identity plus the bearer token that proves it.
type Session struct {
	Identity
	Token     string
	ExpiresAt time.Time
}

// Claims are the verified contents of a bearer token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Gateway errors are *errs.ApiErr values wrapping errs.ErrEmailInUse,
// errs.ErrWeakPassword, errs.ErrInvalidCredentials, errs.ErrExpiredToken,
// errs.ErrInvalidToken or errs.ErrIdentityProvider.
type Gateway interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (*Claims, error)
}
