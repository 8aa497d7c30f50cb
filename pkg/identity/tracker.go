package identity

import (
	"context"
	"sync"

	"github.com/tradeguard/dashkit/pkg/broadcast"
)

// AuthEvent reports a transition of the session's authentication state.
type AuthEvent struct {
	User          User `json:"user"`
	Authenticated bool `json:"authenticated"`
}

// Tracker holds the session's current authentication state and publishes an
// AuthEvent on every transition. Repeated calls with the same state are
// absorbed, so subscribers observe transitions, not heartbeats.
type Tracker struct {
	events broadcast.Broadcaster[AuthEvent]

	mu            sync.Mutex
	authenticated bool
	user          User
}

// NewTracker creates a Tracker publishing through the given broadcaster.
func NewTracker(events broadcast.Broadcaster[AuthEvent]) *Tracker {
	return &Tracker{events: events}
}

// SetAuthenticated records a login. An event is published only when the
// state actually changes (including a switch to a different user).
func (t *Tracker) SetAuthenticated(ctx context.Context, user User) {
	t.mu.Lock()
	changed := !t.authenticated || t.user.ID != user.ID
	t.authenticated = true
	t.user = user
	t.mu.Unlock()

	if changed {
		_ = t.events.Broadcast(ctx, broadcast.Message[AuthEvent]{
			Data: AuthEvent{User: user, Authenticated: true},
		})
	}
}

// SetUnauthenticated records a logout or session expiry.
func (t *Tracker) SetUnauthenticated(ctx context.Context) {
	t.mu.Lock()
	changed := t.authenticated
	user := t.user
	t.authenticated = false
	t.user = User{}
	t.mu.Unlock()

	if changed {
		_ = t.events.Broadcast(ctx, broadcast.Message[AuthEvent]{
			Data: AuthEvent{User: user, Authenticated: false},
		})
	}
}

// Authenticated reports the current state and user.
func (t *Tracker) Authenticated() (User, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.user, t.authenticated
}

// Subscribe returns a subscriber of authentication transitions.
func (t *Tracker) Subscribe(ctx context.Context) broadcast.Subscriber[AuthEvent] {
	return t.events.Subscribe(ctx)
}
