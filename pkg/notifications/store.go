package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tradeguard/dashkit/pkg/broadcast"
	"github.com/tradeguard/dashkit/pkg/logger"
)

// Change summarizes the collection after a mutation. The unread count is
// recomputed inside the same critical section as the mutation itself, so a
// Change never shows a read flag and a counter from different states.
type Change struct {
	Version     uint64 `json:"version"`
	UnreadCount int    `json:"unread_count"`
	Total       int    `json:"total"`
}

// Patch is an in-place update of a notification's read state. Both fields
// are applied verbatim, which makes a Patch usable for rollback: restoring
// a prior state is just re-applying it.
type Patch struct {
	Read   bool
	ReadAt *time.Time
}

// Store owns the local notification collection for one user session. The
// collection is only ever replaced wholesale by Fetch; everything else
// mutates individual records in place. All methods are safe for concurrent
// use.
type Store struct {
	authority Authority
	log       *slog.Logger
	changes   broadcast.Broadcaster[Change]
	toasts    *ToastQueue

	mu      sync.RWMutex
	userID  string
	records []Notification
	loading bool
	lastErr error
	version uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithUser sets the session user the collection belongs to.
func WithUser(userID string) StoreOption {
	return func(s *Store) {
		s.userID = userID
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithChangeBroadcaster replaces the default in-memory change broadcaster.
func WithChangeBroadcaster(b broadcast.Broadcaster[Change]) StoreOption {
	return func(s *Store) {
		if b != nil {
			s.changes = b
		}
	}
}

// WithToasts replaces the store's toast queue.
func WithToasts(q *ToastQueue) StoreOption {
	return func(s *Store) {
		if q != nil {
			s.toasts = q
		}
	}
}

// NewStore creates an empty store reconciling against the given authority.
func NewStore(authority Authority, opts ...StoreOption) *Store {
	s := &Store{
		authority: authority,
		log:       slog.Default().With(logger.Component("notifications.store")),
		changes:   broadcast.NewMemoryBroadcaster[Change](16),
		toasts:    NewToastQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch replaces the entire collection with the authority's current state.
// On failure the previous collection is kept and the error recorded.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	s.loading = true
	s.mu.Unlock()

	records, err := s.authority.List(ctx, userID)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.log.ErrorContext(ctx, "fetch failed", logger.UserID(userID), logger.Error(err))
		return fmt.Errorf("fetch notifications: %w", err)
	}
	s.records = append([]Notification(nil), records...)
	s.lastErr = nil
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
	s.log.InfoContext(ctx, "collection fetched", logger.UserID(userID), logger.Count(change.Total))
	return nil
}

// MarkRead confirms a single read with the authority. It does not touch the
// local collection; the optimistic change is the Reconciler's job.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	if err := s.authority.MarkRead(ctx, id); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// MarkAllRead confirms a bulk read with the authority.
func (s *Store) MarkAllRead(ctx context.Context) error {
	if err := s.authority.MarkAllRead(ctx); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// Delete confirms a removal with the authority.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.authority.Delete(ctx, id); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// ClearAll confirms removing the whole collection with the authority.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.authority.ClearAll(ctx); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// Update applies a read-state patch to one record. Returns false when the
// record is absent.
func (s *Store) Update(id string, patch Patch) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.records[i].Read = patch.Read
	s.records[i].ReadAt = patch.ReadAt
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
	return true
}

// All returns a copy of the collection in storage order.
func (s *Store) All() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.records...)
}

// Get returns one record by ID.
func (s *Store) Get(id string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i], true
	}
	return Notification{}, false
}

// UnreadCount is always derived from the records it is reported with.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadLocked()
}

// Total returns the collection size.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Loading reports whether a Fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded operation failure. It stays set until
// ClearError or the next successful Fetch.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError discards the recorded failure.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Version returns the collection version, bumped on every mutation. Derived
// views key their memoization on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetUser rebinds the store to another session user. The collection is not
// touched; callers fetch afterwards.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// User returns the session user the collection belongs to.
func (s *Store) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Subscribe returns a subscriber of collection changes.
func (s *Store) Subscribe(ctx context.Context) broadcast.Subscriber[Change] {
	return s.changes.Subscribe(ctx)
}

// Toasts returns the store's toast queue.
func (s *Store) Toasts() *ToastQueue {
	return s.toasts
}

// Close shuts down the change broadcaster and the toast queue.
func (s *Store) Close() error {
	err := s.changes.Close()
	if terr := s.toasts.Close(); err == nil {
		err = terr
	}
	return err
}

// snapshot returns the current version together with a copy of the records,
// taken under one lock so views always compute from a consistent state.
func (s *Store) snapshot() (uint64, []Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, append([]Notification(nil), s.records...)
}

// markReadOptimistic captures the record's read state and marks it read in
// one critical section. Reports false when the record is absent or already
// read, in which case nothing changed.
func (s *Store) markReadOptimistic(id string, at time.Time) (readState, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || s.records[i].Read {
		s.mu.Unlock()
		return readState{}, false
	}

	prior := readState{id: id, read: s.records[i].Read, readAt: s.records[i].ReadAt}
	readAt := at
	s.records[i].Read = true
	s.records[i].ReadAt = &readAt
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
	return prior, true
}

// markAllReadOptimistic captures every record's read state and marks the
// unread ones read. The snapshot covers all records so a rollback restores
// exact prior values rather than blanket-resetting anything.
func (s *Store) markAllReadOptimistic(at time.Time) []readState {
	s.mu.Lock()
	snapshot := make([]readState, len(s.records))
	changed := false
	for i := range s.records {
		snapshot[i] = readState{
			id:     s.records[i].ID,
			read:   s.records[i].Read,
			readAt: s.records[i].ReadAt,
		}
		if !s.records[i].Read {
			readAt := at
			s.records[i].Read = true
			s.records[i].ReadAt = &readAt
			changed = true
		}
	}
	if !changed {
		s.mu.Unlock()
		return snapshot
	}
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
	return snapshot
}

// deleteOptimistic captures the record's read state and marks it read ahead
// of a removal. Unlike markReadOptimistic it proceeds for already-read
// records, because the removal itself still needs confirming. Reports false
// only when the record is absent.
func (s *Store) deleteOptimistic(id string, at time.Time) (readState, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return readState{}, false
	}

	prior := readState{id: id, read: s.records[i].Read, readAt: s.records[i].ReadAt}
	if !s.records[i].Read {
		readAt := at
		s.records[i].Read = true
		s.records[i].ReadAt = &readAt
		change := s.bumpLocked()
		s.mu.Unlock()
		s.publish(change)
		return prior, true
	}
	s.mu.Unlock()
	return prior, true
}

// restore re-applies captured read states. Used for rollback after a remote
// failure; records that no longer exist are skipped.
func (s *Store) restore(states ...readState) {
	s.mu.Lock()
	changed := false
	for _, st := range states {
		i := s.indexLocked(st.id)
		if i < 0 {
			continue
		}
		if s.records[i].Read != st.read || s.records[i].ReadAt != st.readAt {
			s.records[i].Read = st.read
			s.records[i].ReadAt = st.readAt
			changed = true
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
}

// remove drops a record from the collection after the authority confirmed
// its deletion.
func (s *Store) remove(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
	return true
}

// removeAll empties the collection after the authority confirmed a clear.
func (s *Store) removeAll() {
	s.mu.Lock()
	if len(s.records) == 0 {
		s.mu.Unlock()
		return
	}
	s.records = nil
	change := s.bumpLocked()
	s.mu.Unlock()

	s.publish(change)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) unreadLocked() int {
	n := 0
	for i := range s.records {
		if !s.records[i].Read {
			n++
		}
	}
	return n
}

// bumpLocked advances the version and builds the change event from the same
// state the mutation left behind.
func (s *Store) bumpLocked() Change {
	s.version++
	return Change{
		Version:     s.version,
		UnreadCount: s.unreadLocked(),
		Total:       len(s.records),
	}
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Store) publish(change Change) {
	_ = s.changes.Broadcast(context.Background(), broadcast.Message[Change]{Data: change})
}
