package notifications

import "time"

// Kind identifies the marketplace event a notification reports. The set is
// closed; values outside it may still arrive from the remote service and are
// carried through untouched, but they sort below every known kind.
type Kind string

const (
	KindSystemAnnouncement Kind = "system_announcement"
	KindDisputeCreated     Kind = "dispute_created"
	KindDisputeResolved    Kind = "dispute_resolved"
	KindKYCApproved        Kind = "kyc_approved"
	KindKYCRejected        Kind = "kyc_rejected"
	KindPaymentReceived    Kind = "payment_received"
	KindPaymentReleased    Kind = "payment_released"
	KindDealCreated        Kind = "deal_created"
	KindDealFunded         Kind = "deal_funded"
	KindDealCompleted      Kind = "deal_completed"
	KindDealCancelled      Kind = "deal_cancelled"
	KindMessageReceived    Kind = "message_received"
	KindTrustScoreChanged  Kind = "trust_score_changed"
	KindSavingsInterest    Kind = "savings_interest"
)

// Kinds lists all known kinds in display-priority order, most urgent first.
// Platform announcements and disputes demand immediate attention; passive
// income events matter least.
var Kinds = []Kind{
	KindSystemAnnouncement,
	KindDisputeCreated,
	KindDisputeResolved,
	KindKYCApproved,
	KindKYCRejected,
	KindPaymentReceived,
	KindPaymentReleased,
	KindDealCreated,
	KindDealFunded,
	KindDealCompleted,
	KindDealCancelled,
	KindMessageReceived,
	KindTrustScoreChanged,
	KindSavingsInterest,
}

var kindRanks = func() map[Kind]int {
	ranks := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		ranks[k] = i
	}
	return ranks
}()

// Valid reports whether the kind belongs to the known set.
func (k Kind) Valid() bool {
	_, ok := kindRanks[k]
	return ok
}

// Rank returns the kind's display priority. Lower ranks sort first; kinds
// outside the known set rank below everything.
func (k Kind) Rank() int {
	if rank, ok := kindRanks[k]; ok {
		return rank
	}
	return len(Kinds)
}

// Notification is a single entry of the user's notification collection.
// Title, Message and CreatedAt are immutable after creation; only the read
// state ever changes locally.
type Notification struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// readState is the exact rollback unit of the mutation protocol: the read
// flag and its timestamp for one notification, captured before an optimistic
// change is applied.
type readState struct {
	id     string
	read   bool
	readAt *time.Time
}
