package notifications

import "context"

// Authority is the remote notification service: the single source of truth
// the local collection reconciles against. Implementations must classify
// failures into the package's error taxonomy (ErrNetwork, ErrAuth,
// ErrNotFound, ErrUnknown) so callers can branch with errors.Is.
//
// Mutating calls are scoped to the authenticated session; only List takes an
// explicit user identifier.
type Authority interface {
	// List returns the user's full notification collection.
	List(ctx context.Context, userID string) ([]Notification, error)

	// MarkRead marks a single notification as read.
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead marks every notification of the session's user as read.
	MarkAllRead(ctx context.Context) error

	// Delete removes a single notification.
	Delete(ctx context.Context, id string) error

	// ClearAll removes every notification of the session's user.
	ClearAll(ctx context.Context) error
}
