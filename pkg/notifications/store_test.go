package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/broadcast"
	"github.com/tradeguard/dashkit/pkg/notifications"
)

const testUser = "user-1"

func makeUnread(id string, kind notifications.Kind, createdAt time.Time) notifications.Notification {
	return notifications.Notification{
		ID:        id,
		Kind:      kind,
		Title:     "title " + id,
		Message:   "message " + id,
		CreatedAt: createdAt,
	}
}

func makeRead(id string, kind notifications.Kind, createdAt, readAt time.Time) notifications.Notification {
	n := makeUnread(id, kind, createdAt)
	n.Read = true
	n.ReadAt = &readAt
	return n
}

// newFixture seeds an in-memory authority and returns a fetched store over it.
func newFixture(t *testing.T, records ...notifications.Notification) (*notifications.MemoryAuthority, *notifications.Store) {
	t.Helper()

	authority := notifications.NewMemoryAuthority(testUser)
	authority.Seed(testUser, records...)

	store := notifications.NewStore(authority, notifications.WithUser(testUser))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Fetch(context.Background()))
	return authority, store
}

func toastsBySeverity(store *notifications.Store, severity notifications.Severity) []notifications.Toast {
	var out []notifications.Toast
	for _, toast := range store.Toasts().Active() {
		if toast.Severity == severity {
			out = append(out, toast)
		}
	}
	return out
}

func nextChange(t *testing.T, sub broadcast.Subscriber[notifications.Change]) notifications.Change {
	t.Helper()
	select {
	case msg := <-sub.Receive(context.Background()):
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		panic("unreachable")
	}
}

func TestStore_Fetch(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("n1", notifications.KindDealCreated, now),
		makeRead("n2", notifications.KindPaymentReceived, now, now),
	)

	assert.Equal(t, 2, store.Total())
	assert.Equal(t, 1, store.UnreadCount())
	assert.False(t, store.Loading())
	assert.NoError(t, store.Err())
}

func TestStore_FetchFailureKeepsCollection(t *testing.T) {
	t.Parallel()

	now := time.Now()
	authority, store := newFixture(t, makeUnread("n1", notifications.KindDealCreated, now))

	authority.FailWith(notifications.OpList, notifications.ErrNetwork)
	err := store.Fetch(context.Background())
	require.ErrorIs(t, err, notifications.ErrNetwork)

	// The previous collection stays visible and the failure is recorded.
	assert.Equal(t, 1, store.Total())
	assert.ErrorIs(t, store.Err(), notifications.ErrNetwork)
	assert.False(t, store.Loading())
}

func TestStore_FetchSuccessClearsError(t *testing.T) {
	t.Parallel()

	authority, store := newFixture(t)

	authority.FailWith(notifications.OpList, notifications.ErrNetwork)
	require.Error(t, store.Fetch(context.Background()))
	require.Error(t, store.Err())

	authority.FailWith(notifications.OpList, nil)
	require.NoError(t, store.Fetch(context.Background()))
	assert.NoError(t, store.Err())
}

func TestStore_Update(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t, makeUnread("n1", notifications.KindMessageReceived, now))

	readAt := now.Add(time.Minute)
	require.True(t, store.Update("n1", notifications.Patch{Read: true, ReadAt: &readAt}))

	got, ok := store.Get("n1")
	require.True(t, ok)
	assert.True(t, got.Read)
	require.NotNil(t, got.ReadAt)
	assert.True(t, got.ReadAt.Equal(readAt))
	assert.Equal(t, 0, store.UnreadCount())

	// Patching back to unread clears the timestamp too.
	require.True(t, store.Update("n1", notifications.Patch{Read: false, ReadAt: nil}))
	got, _ = store.Get("n1")
	assert.False(t, got.Read)
	assert.Nil(t, got.ReadAt)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestStore_UpdateAbsent(t *testing.T) {
	t.Parallel()

	_, store := newFixture(t)
	assert.False(t, store.Update("ghost", notifications.Patch{Read: true}))
}

func TestStore_VersionAdvancesOnMutation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t, makeUnread("n1", notifications.KindDealFunded, now))

	before := store.Version()
	store.Update("n1", notifications.Patch{Read: true, ReadAt: &now})
	assert.Greater(t, store.Version(), before)

	// Reads never move the version.
	store.All()
	store.UnreadCount()
	assert.Equal(t, before+1, store.Version())
}

func TestStore_ChangeEventsCarryConsistentCounts(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("n1", notifications.KindDealCreated, now),
		makeUnread("n2", notifications.KindMessageReceived, now),
	)

	sub := store.Subscribe(context.Background())

	store.Update("n1", notifications.Patch{Read: true, ReadAt: &now})
	change := nextChange(t, sub)
	assert.Equal(t, 1, change.UnreadCount)
	assert.Equal(t, 2, change.Total)
	assert.Equal(t, store.Version(), change.Version)
}

func TestStore_SetUser(t *testing.T) {
	t.Parallel()

	authority := notifications.NewMemoryAuthority(testUser)
	authority.Seed("user-2", makeUnread("n1", notifications.KindKYCApproved, time.Now()))

	store := notifications.NewStore(authority, notifications.WithUser(testUser))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Fetch(context.Background()))
	assert.Equal(t, 0, store.Total())

	store.SetUser("user-2")
	assert.Equal(t, "user-2", store.User())

	require.NoError(t, store.Fetch(context.Background()))
	assert.Equal(t, 1, store.Total())
}
