package notifications

import "errors"

var (
	// ErrNetwork indicates the remote notification service was unreachable
	// or the request could not complete at the transport level.
	ErrNetwork = errors.New("notification service unreachable")

	// ErrAuth indicates the remote notification service rejected the
	// request as unauthenticated or forbidden.
	ErrAuth = errors.New("notification request not authorized")

	// ErrNotFound indicates the remote notification service has no record
	// of the referenced notification.
	ErrNotFound = errors.New("notification not found")

	// ErrUnknown indicates a remote failure that fits no other category.
	ErrUnknown = errors.New("notification operation failed")

	// ErrQueueClosed is returned when pushing to a closed toast queue.
	ErrQueueClosed = errors.New("toast queue closed")
)
