package auth

import (
	"context"

	"github.com/google/uuid"
)

// ctxKey is unexported so only this package can place values under it.
type ctxKey struct{}

// WithUserID returns a context carrying the authenticated user's ID.
// The JWT middleware calls this after verifying the bearer token.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID extracts the authenticated user's ID from the context.
// The second return is false for unauthenticated requests.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
