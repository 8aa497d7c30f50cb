// Package notifications keeps a dashboard's notification collection in sync
// with the remote notification service using optimistic mutations.
//
// The package is built around three collaborating pieces:
//
//   - Store owns the in-memory collection, the unread counter and the toast
//     queue, and talks to the remote service through the Authority interface.
//   - Reconciler drives every user-facing mutation: it applies the change
//     locally first, confirms it remotely, and rolls the local change back
//     to the exact prior state when the remote call fails.
//   - Views derives presentation-ready projections (grouping, recency,
//     priority ordering) from the collection and memoizes them per collection
//     version.
//
// # Mutation protocol
//
// Every mutation follows the same sequence: snapshot the affected read state,
// apply the change locally, issue exactly one remote call, and on failure
// restore the snapshot, raise an error toast and return the failure to the
// caller. The UI therefore reacts instantly while the collection never drifts
// from what the remote service confirmed.
//
//	store := notifications.NewStore(authority, notifications.WithUser("user-1"))
//	rec := notifications.NewReconciler(store)
//
//	if err := rec.MarkAsRead(ctx, "ntf-42"); err != nil {
//		// The local change has already been rolled back and an error
//		// toast queued; the error is returned for the caller to handle.
//	}
//
// # Remote failures
//
// Authority implementations classify failures into the package's error
// taxonomy (ErrNetwork, ErrAuth, ErrNotFound, ErrUnknown) so callers can
// branch with errors.Is. HTTPAuthority maps transport errors and HTTP status
// codes onto the taxonomy; MemoryAuthority serves development and tests and
// supports failure injection.
//
// # Derived views
//
// Views never mutate the collection. Each projection is computed from a
// consistent snapshot and cached against the collection version, so repeated
// reads between mutations are free:
//
//	views := notifications.NewViews(store)
//	for kind, group := range views.GroupByKind() {
//		...
//	}
//
// # Toasts
//
// Transient feedback goes through the ToastQueue owned by the Store. Toasts
// expire on a timer or by explicit dismissal and are broadcast to subscribers
// (typically an SSE handler) as they appear and disappear.
package notifications
