package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/notifications"
)

func ids(records []notifications.Notification) []string {
	out := make([]string, len(records))
	for i, n := range records {
		out[i] = n.ID
	}
	return out
}

func TestViews_GroupByKind(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("n1", notifications.KindDealCreated, now),
		makeUnread("n2", notifications.KindDealCreated, now.Add(time.Minute)),
		makeRead("n3", notifications.KindKYCApproved, now, now),
	)
	views := notifications.NewViews(store)

	groups := views.GroupByKind()

	// Every known kind has a bucket, populated or not.
	for _, kind := range notifications.Kinds {
		bucket, ok := groups[kind]
		require.True(t, ok, "kind %s must have a bucket", kind)
		assert.NotNil(t, bucket)
	}

	assert.Len(t, groups[notifications.KindDealCreated], 2)
	assert.Len(t, groups[notifications.KindKYCApproved], 1)
	assert.Empty(t, groups[notifications.KindDisputeCreated])
}

func TestViews_GroupByKindKeepsUnknownKinds(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t, makeUnread("n1", notifications.Kind("referral_bonus"), now))
	views := notifications.NewViews(store)

	groups := views.GroupByKind()
	assert.Len(t, groups[notifications.Kind("referral_bonus")], 1)
}

func TestViews_Recent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("fresh", notifications.KindMessageReceived, now.Add(-time.Minute)),
		makeUnread("inside", notifications.KindDealFunded, now.Add(-23*time.Hour)),
		makeUnread("outside", notifications.KindDealCreated, now.Add(-25*time.Hour)),
	)
	views := notifications.NewViews(store, notifications.WithViewsClock(func() time.Time { return now }))

	recent := views.Recent()
	assert.Equal(t, []string{"fresh", "inside"}, ids(recent))
}

func TestViews_RecentWindowAdvancesWithTime(t *testing.T) {
	t.Parallel()

	created := time.Now()
	_, store := newFixture(t, makeUnread("n1", notifications.KindDealCreated, created))

	clock := created
	views := notifications.NewViews(store, notifications.WithViewsClock(func() time.Time { return clock }))

	require.Len(t, views.Recent(), 1)

	// The record ages out without any collection change.
	clock = created.Add(notifications.RecentWindow + time.Second)
	assert.Empty(t, views.Recent())
}

func TestViews_ByPriority(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeRead("read-dispute", notifications.KindDisputeCreated, now, now),
		makeUnread("unread-message", notifications.KindMessageReceived, now),
		makeUnread("unread-announcement", notifications.KindSystemAnnouncement, now),
		makeUnread("unread-dispute", notifications.KindDisputeCreated, now),
		makeRead("read-announcement", notifications.KindSystemAnnouncement, now, now),
	)
	views := notifications.NewViews(store)

	// Unread first, then kind urgency, read records trail in the same order.
	assert.Equal(t, []string{
		"unread-announcement",
		"unread-dispute",
		"unread-message",
		"read-announcement",
		"read-dispute",
	}, ids(views.ByPriority()))
}

func TestViews_ByPriorityBreaksTiesByRecency(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("older", notifications.KindDealCreated, now.Add(-time.Hour)),
		makeUnread("newer", notifications.KindDealCreated, now),
	)
	views := notifications.NewViews(store)

	assert.Equal(t, []string{"newer", "older"}, ids(views.ByPriority()))
}

func TestViews_ByPriorityRanksUnknownKindsLast(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("known", notifications.KindSavingsInterest, now),
		makeUnread("unknown", notifications.Kind("referral_bonus"), now),
	)
	views := notifications.NewViews(store)

	assert.Equal(t, []string{"known", "unknown"}, ids(views.ByPriority()))
}

func TestViews_Unread(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeRead("n1", notifications.KindDealCompleted, now, now),
		makeUnread("n2", notifications.KindDisputeResolved, now),
		makeUnread("n3", notifications.KindPaymentReceived, now),
	)
	views := notifications.NewViews(store)

	unread := views.Unread()
	assert.Equal(t, []string{"n2", "n3"}, ids(unread))
}

func TestViews_RecomputeOnCollectionChange(t *testing.T) {
	t.Parallel()

	now := time.Now()
	_, store := newFixture(t,
		makeUnread("n1", notifications.KindDealCreated, now),
		makeUnread("n2", notifications.KindMessageReceived, now),
	)
	views := notifications.NewViews(store)

	require.Len(t, views.Unread(), 2)

	readAt := now.Add(time.Minute)
	require.True(t, store.Update("n1", notifications.Patch{Read: true, ReadAt: &readAt}))

	unread := views.Unread()
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].ID)
}
