package notifications

import (
	"slices"
	"time"

	"github.com/tradeguard/dashkit/pkg/cache"
)

// RecentWindow bounds the Recent view: only notifications created within the
// last 24 hours qualify.
const RecentWindow = 24 * time.Hour

// viewSet holds every projection computed from one collection snapshot.
type viewSet struct {
	byKind        map[Kind][]Notification
	byCreatedDesc []Notification
	byPriority    []Notification
}

// Views derives read-only projections from a Store's collection. Projections
// are computed from a consistent snapshot and memoized against the collection
// version, so repeated reads between mutations cost a cache lookup.
type Views struct {
	store *Store
	memo  *cache.LRU[uint64, *viewSet]
	now   func() time.Time
}

// ViewsOption configures a Views.
type ViewsOption func(*Views)

// WithViewsClock replaces the time source used by the recency window.
func WithViewsClock(now func() time.Time) ViewsOption {
	return func(v *Views) {
		if now != nil {
			v.now = now
		}
	}
}

// WithMemoCapacity sets how many collection versions stay cached. Older
// versions only matter to readers that grabbed them just before a mutation,
// so a handful is plenty.
func WithMemoCapacity(n int) ViewsOption {
	return func(v *Views) {
		if n > 0 {
			v.memo = cache.NewLRU[uint64, *viewSet](n)
		}
	}
}

// NewViews creates a view engine over the store.
func NewViews(store *Store, opts ...ViewsOption) *Views {
	v := &Views{
		store: store,
		memo:  cache.NewLRU[uint64, *viewSet](4),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// GroupByKind buckets the collection by kind. Every known kind gets a
// bucket, empty ones included, so consumers can render fixed sections
// without nil checks. Unknown kinds arriving from the service get their own
// buckets too.
func (v *Views) GroupByKind() map[Kind][]Notification {
	return v.current().byKind
}

// Recent returns notifications created within the last 24 hours, newest
// first.
func (v *Views) Recent() []Notification {
	sorted := v.current().byCreatedDesc
	cutoff := v.now().Add(-RecentWindow)

	recent := make([]Notification, 0, len(sorted))
	for _, n := range sorted {
		if !n.CreatedAt.After(cutoff) {
			break
		}
		recent = append(recent, n)
	}
	return recent
}

// Unread returns the unread notifications in priority order.
func (v *Views) Unread() []Notification {
	ordered := v.current().byPriority
	unread := make([]Notification, 0, len(ordered))
	for _, n := range ordered {
		if n.Read {
			break
		}
		unread = append(unread, n)
	}
	return unread
}

// ByPriority returns the whole collection ordered for display: unread before
// read, then by kind urgency, then newest first.
func (v *Views) ByPriority() []Notification {
	return v.current().byPriority
}

// current returns the projections for the store's present version, computing
// and caching them when the version is new.
func (v *Views) current() *viewSet {
	version, records := v.store.snapshot()
	if set, ok := v.memo.Get(version); ok {
		return set
	}

	set := computeViews(records)
	v.memo.Put(version, set)
	return set
}

func computeViews(records []Notification) *viewSet {
	byKind := make(map[Kind][]Notification, len(Kinds))
	for _, kind := range Kinds {
		byKind[kind] = []Notification{}
	}
	for _, n := range records {
		byKind[n.Kind] = append(byKind[n.Kind], n)
	}

	byCreatedDesc := append([]Notification(nil), records...)
	slices.SortStableFunc(byCreatedDesc, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	byPriority := append([]Notification(nil), records...)
	slices.SortStableFunc(byPriority, func(a, b Notification) int {
		if a.Read != b.Read {
			if a.Read {
				return 1
			}
			return -1
		}
		if ra, rb := a.Kind.Rank(), b.Kind.Rank(); ra != rb {
			return ra - rb
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return &viewSet{
		byKind:        byKind,
		byCreatedDesc: byCreatedDesc,
		byPriority:    byPriority,
	}
}
