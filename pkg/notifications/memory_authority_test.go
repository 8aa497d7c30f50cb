package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/notifications"
)

func TestMemoryAuthority_MarkRead(t *testing.T) {
	t.Parallel()

	authority := notifications.NewMemoryAuthority(testUser)
	authority.Seed(testUser, makeUnread("n1", notifications.KindDealCreated, time.Now()))

	require.NoError(t, authority.MarkRead(context.Background(), "n1"))

	stored := authority.Stored(testUser)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Read)
	assert.NotNil(t, stored[0].ReadAt)

	assert.ErrorIs(t, authority.MarkRead(context.Background(), "ghost"), notifications.ErrNotFound)
	assert.Equal(t, 2, authority.Calls(notifications.OpMarkRead))
}

func TestMemoryAuthority_DeleteAndClear(t *testing.T) {
	t.Parallel()

	now := time.Now()
	authority := notifications.NewMemoryAuthority(testUser)
	authority.Seed(testUser,
		makeUnread("n1", notifications.KindDealCreated, now),
		makeUnread("n2", notifications.KindDealFunded, now),
	)

	require.NoError(t, authority.Delete(context.Background(), "n1"))
	assert.Len(t, authority.Stored(testUser), 1)
	assert.ErrorIs(t, authority.Delete(context.Background(), "n1"), notifications.ErrNotFound)

	require.NoError(t, authority.ClearAll(context.Background()))
	assert.Empty(t, authority.Stored(testUser))
}

func TestMemoryAuthority_FailureInjection(t *testing.T) {
	t.Parallel()

	authority := notifications.NewMemoryAuthority(testUser)
	authority.Seed(testUser, makeUnread("n1", notifications.KindDealCreated, time.Now()))

	authority.FailWith(notifications.OpMarkAllRead, notifications.ErrNetwork)
	assert.ErrorIs(t, authority.MarkAllRead(context.Background()), notifications.ErrNetwork)

	// Other operations are unaffected.
	_, err := authority.List(context.Background(), testUser)
	require.NoError(t, err)

	// Clearing the injection restores normal behavior.
	authority.FailWith(notifications.OpMarkAllRead, nil)
	require.NoError(t, authority.MarkAllRead(context.Background()))

	stored := authority.Stored(testUser)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Read)
}
