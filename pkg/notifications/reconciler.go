package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradeguard/dashkit/pkg/broadcast"
	"github.com/tradeguard/dashkit/pkg/identity"
	"github.com/tradeguard/dashkit/pkg/logger"
)

// PermissionGate abstracts the device's push-alert permission surface. On
// platforms without one, a nil gate behaves as unsupported.
type PermissionGate interface {
	// Supported reports whether push alerts exist on this device at all.
	Supported(ctx context.Context) bool

	// Request asks the user for permission. A non-nil error means the
	// permission was denied or the prompt failed.
	Request(ctx context.Context) error
}

// Reconciler drives every user-facing mutation of the collection. Each
// mutation applies locally first, issues exactly one remote call, and on
// failure restores the captured prior state, queues an error toast and
// returns the failure to the caller.
type Reconciler struct {
	store *Store
	log   *slog.Logger
	gate  PermissionGate
	now   func() time.Time
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithReconcilerLogger sets the structured logger.
func WithReconcilerLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// WithPermissionGate installs the push-alert permission surface.
func WithPermissionGate(gate PermissionGate) ReconcilerOption {
	return func(r *Reconciler) {
		r.gate = gate
	}
}

// WithClock replaces the time source. Tests use it to pin read timestamps.
func WithClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates a reconciler mutating the given store.
func NewReconciler(store *Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store: store,
		log:   slog.Default().With(logger.Component("notifications.reconciler")),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MarkAsRead marks one notification as read. Already-read or absent
// notifications are a no-op with no remote call, so repeating the operation
// costs at most one round trip.
func (r *Reconciler) MarkAsRead(ctx context.Context, id string) error {
	prior, ok := r.store.markReadOptimistic(id, r.now())
	if !ok {
		return nil
	}

	if err := r.store.MarkRead(ctx, id); err != nil {
		r.store.restore(prior)
		r.failed(ctx, OpMarkRead, err, logger.NotificationID(id))
		return fmt.Errorf("mark notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllAsRead marks the whole collection as read in one remote call. The
// rollback snapshot covers every record's read state, so a failure restores
// mixed collections exactly, not to a blanket value.
func (r *Reconciler) MarkAllAsRead(ctx context.Context) error {
	snapshot := r.store.markAllReadOptimistic(r.now())

	if err := r.store.MarkAllRead(ctx); err != nil {
		r.store.restore(snapshot...)
		r.failed(ctx, OpMarkAllRead, err)
		return fmt.Errorf("mark all notifications as read: %w", err)
	}

	_, _ = r.store.Toasts().Success("All caught up", "Every notification is marked as read.")
	return nil
}

// Delete removes one notification. The optimistic step marks it read so the
// unread badge reacts instantly; the record leaves the collection only after
// the authority confirms. Absent notifications are a no-op.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	prior, ok := r.store.deleteOptimistic(id, r.now())
	if !ok {
		return nil
	}

	if err := r.store.Delete(ctx, id); err != nil {
		r.store.restore(prior)
		r.failed(ctx, OpDelete, err, logger.NotificationID(id))
		return fmt.Errorf("delete notification %s: %w", id, err)
	}

	r.store.remove(id)
	_, _ = r.store.Toasts().Success("Notification deleted", "")
	return nil
}

// ClearAll removes the whole collection. There is no optimistic step: the
// collection empties only once the authority confirms, so nothing can need
// rolling back.
func (r *Reconciler) ClearAll(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		r.failed(ctx, OpClearAll, err)
		return fmt.Errorf("clear notifications: %w", err)
	}

	r.store.removeAll()
	_, _ = r.store.Toasts().Success("Notifications cleared", "")
	return nil
}

// Refresh re-fetches the collection. On failure the previous collection
// stays visible and an error toast is queued.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if err := r.store.Fetch(ctx); err != nil {
		_, _ = r.store.Toasts().Error("Couldn't load notifications", failureMessage(err))
		return err
	}
	return nil
}

// WatchAuth consumes authentication transitions and fetches the collection
// exactly once per transition into an authenticated state, including a
// switch to a different user. The watcher stops when the context is
// cancelled or the subscriber closes.
func (r *Reconciler) WatchAuth(ctx context.Context, events broadcast.Subscriber[identity.AuthEvent]) {
	go func() {
		authed := false
		current := ""
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-events.Receive(ctx):
				if !ok {
					return
				}
				event := msg.Data
				if event.Authenticated && (!authed || event.User.ID != current) {
					r.store.SetUser(event.User.ID)
					_ = r.Refresh(ctx)
				}
				authed = event.Authenticated
				current = event.User.ID
			}
		}
	}()
}

// EnablePushAlerts asks the device for push-alert permission. Outcomes are
// reported through toasts only; the collection is never touched.
func (r *Reconciler) EnablePushAlerts(ctx context.Context) {
	if r.gate == nil || !r.gate.Supported(ctx) {
		_, _ = r.store.Toasts().Info("Push alerts unavailable", "This device does not support push alerts.")
		return
	}

	if err := r.gate.Request(ctx); err != nil {
		r.log.WarnContext(ctx, "push permission denied", logger.Error(err))
		_, _ = r.store.Toasts().Error("Push alerts not enabled", "Permission was not granted.")
		return
	}

	_, _ = r.store.Toasts().Success("Push alerts enabled", "You will get alerts for new notifications.")
}

// failed logs the remote failure and queues the error toast after the
// rollback has already happened.
func (r *Reconciler) failed(ctx context.Context, op string, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+2)
	args = append(args, logger.Operation(op), logger.Error(err))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	r.log.ErrorContext(ctx, "remote rejected mutation, rolled back", args...)

	_, _ = r.store.Toasts().Error(failureTitle(op), failureMessage(err))
}

func failureTitle(op string) string {
	switch op {
	case OpMarkRead:
		return "Couldn't mark as read"
	case OpMarkAllRead:
		return "Couldn't mark all as read"
	case OpDelete:
		return "Couldn't delete notification"
	case OpClearAll:
		return "Couldn't clear notifications"
	default:
		return "Something went wrong"
	}
}

// failureMessage turns a classified remote error into user-facing text.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "Connection problem. Your change was undone."
	case errors.Is(err, ErrAuth):
		return "Your session is no longer authorized. Please sign in again."
	case errors.Is(err, ErrNotFound):
		return "That notification no longer exists."
	default:
		return "The change could not be saved. Please try again."
	}
}
