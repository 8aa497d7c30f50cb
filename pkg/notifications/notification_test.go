package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeguard/dashkit/pkg/notifications"
)

func TestKind_Rank(t *testing.T) {
	t.Parallel()

	t.Run("urgency order", func(t *testing.T) {
		t.Parallel()

		assert.Less(t,
			notifications.KindSystemAnnouncement.Rank(),
			notifications.KindDisputeCreated.Rank())
		assert.Less(t,
			notifications.KindDisputeCreated.Rank(),
			notifications.KindMessageReceived.Rank())
		assert.Less(t,
			notifications.KindMessageReceived.Rank(),
			notifications.KindSavingsInterest.Rank())
	})

	t.Run("unknown kinds rank last", func(t *testing.T) {
		t.Parallel()

		unknown := notifications.Kind("referral_bonus")
		for _, kind := range notifications.Kinds {
			assert.Less(t, kind.Rank(), unknown.Rank(), "kind %s must outrank unknown", kind)
		}
	})

	t.Run("ranks are unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[int]notifications.Kind)
		for _, kind := range notifications.Kinds {
			prev, dup := seen[kind.Rank()]
			assert.False(t, dup, "kinds %s and %s share rank %d", prev, kind, kind.Rank())
			seen[kind.Rank()] = kind
		}
	})
}

func TestKind_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, notifications.KindDealFunded.Valid())
	assert.True(t, notifications.KindTrustScoreChanged.Valid())
	assert.False(t, notifications.Kind("referral_bonus").Valid())
	assert.False(t, notifications.Kind("").Valid())
}
