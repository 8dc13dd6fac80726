package auth

import (
	"errors"
	"time"
)

var (
	// ErrNotAuthenticated means no active user identity is attached to the
	// call. Callers must route the user to sign-in instead of retrying.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid access token")
)

type AccessClaims struct {
	UserID    string
	SID       string
	Role      string
	ExpiresAt time.Time
}
