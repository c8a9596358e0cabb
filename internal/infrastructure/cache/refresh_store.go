package cache

import (
	"context"
	"errors"
)

// ErrTokenNotFound is returned when a refresh token is absent from the store,
// either because it never existed, expired, or was already consumed.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshStore keeps the opaque refresh token -> user id mapping.
//
// Take is the rotation primitive: it removes and returns the mapping in one
// atomic step, so two concurrent refreshes racing on the same token get
// exactly one winner. Once taken, the token is dead regardless of whether the
// caller manages to issue a replacement.
type RefreshStore interface {
	Save(ctx context.Context, token, userID string) error
	Take(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
