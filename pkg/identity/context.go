package identity

import "context"

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var userContextKey = &contextKey{name: "identity_user"}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser returns the authenticated user from the context.
func CurrentUser(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey).(User)
	return user, ok
}

// MustCurrentUser returns the authenticated user or panics.
// Only use behind Middleware, which guarantees a user is present.
func MustCurrentUser(ctx context.Context) User {
	user, ok := CurrentUser(ctx)
	if !ok {
		panic(ErrUnauthenticated)
	}
	return user
}
