package auth

import (
	"context"
	"strings"
)

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

type Identity struct {
	UserID string
	SID    string
	Role   string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || strings.TrimSpace(identity.UserID) == "" {
		return Identity{}, false
	}
	return identity, true
}

// RequireUserID validates a caller-supplied user id.
func RequireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}
