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

func nextToastEvent(t *testing.T, sub broadcast.Subscriber[notifications.ToastEvent]) notifications.ToastEvent {
	t.Helper()
	select {
	case msg := <-sub.Receive(context.Background()):
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for toast event")
		panic("unreachable")
	}
}

func TestToastQueue_Push(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue()
	defer q.Close()

	sub := q.Subscribe(context.Background())

	toast, err := q.Success("Saved", "Your change went through.")
	require.NoError(t, err)
	assert.NotEmpty(t, toast.ID)
	assert.Equal(t, notifications.SeveritySuccess, toast.Severity)
	assert.Equal(t, notifications.DefaultToastDuration, toast.Duration)

	event := nextToastEvent(t, sub)
	assert.Equal(t, notifications.ToastShown, event.Type)
	assert.Equal(t, toast.ID, event.Toast.ID)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.ID, active[0].ID)
}

func TestToastQueue_KeepsDisplayOrder(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue()
	defer q.Close()

	first, err := q.Info("first", "")
	require.NoError(t, err)
	second, err := q.Warning("second", "")
	require.NoError(t, err)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestToastQueue_ExpiresOnTimer(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue()
	defer q.Close()

	sub := q.Subscribe(context.Background())

	toast, err := q.Error("Failed", "Try again.", notifications.WithDuration(20*time.Millisecond))
	require.NoError(t, err)

	shown := nextToastEvent(t, sub)
	assert.Equal(t, notifications.ToastShown, shown.Type)

	dismissed := nextToastEvent(t, sub)
	assert.Equal(t, notifications.ToastDismissed, dismissed.Type)
	assert.Equal(t, toast.ID, dismissed.Toast.ID)

	assert.Empty(t, q.Active())
}

func TestToastQueue_Dismiss(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue()
	defer q.Close()

	toast, err := q.Info("Heads up", "")
	require.NoError(t, err)

	assert.True(t, q.Dismiss(toast.ID))
	assert.Empty(t, q.Active())

	// A second dismissal of the same toast is a no-op.
	assert.False(t, q.Dismiss(toast.ID))
	assert.False(t, q.Dismiss("missing"))
}

func TestToastQueue_StickyToastOutlivesTimer(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue(notifications.WithToastDuration(20 * time.Millisecond))
	defer q.Close()

	toast, err := q.Warning("Action required", "Verify your identity.", notifications.WithDuration(0))
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.ID, active[0].ID)
}

func TestToastQueue_Close(t *testing.T) {
	t.Parallel()

	q := notifications.NewToastQueue()
	_, err := q.Info("before", "")
	require.NoError(t, err)

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	_, err = q.Info("after", "")
	assert.ErrorIs(t, err, notifications.ErrQueueClosed)
	assert.Empty(t, q.Active())
}
