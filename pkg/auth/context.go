package auth

import (
	"context"

	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const userKey contextKey = "user"

// UserFromCtx extracts the authenticated user injected by RequireAuth.
// Returns ErrNotAuthenticated when the request carries no signed-in user.
func UserFromCtx(ctx context.Context) (*identitydomain.UserIdentity, error) {
	user, ok := ctx.Value(userKey).(*identitydomain.UserIdentity)
	if !ok || user == nil {
		return nil, identitydomain.ErrNotAuthenticated
	}
	return user, nil
}

// WithUser returns a new context with the given user attached.
// Used by the activation gate after a granted navigation.
func WithUser(ctx context.Context, user *identitydomain.UserIdentity) context.Context {
	return context.WithValue(ctx, userKey, user)
}
