package notifications

import (
	"context"
	"sync"
	"time"
)

// Operation names the Authority calls, used for failure injection and call
// accounting in MemoryAuthority and for structured logging elsewhere.
const (
	OpList        = "list"
	OpMarkRead    = "mark_as_read"
	OpMarkAllRead = "mark_all_as_read"
	OpDelete      = "delete"
	OpClearAll    = "clear_all"
)

// MemoryAuthority is an in-memory Authority suitable for development and
// tests. It supports per-operation failure injection and counts every remote
// call so tests can assert how often the service was actually hit.
type MemoryAuthority struct {
	mu       sync.RWMutex
	records  map[string][]Notification
	sessions string // user the mutating calls are scoped to
	failures map[string]error
	calls    map[string]int
}

// NewMemoryAuthority creates an empty in-memory authority whose mutating
// calls operate on userID's collection.
func NewMemoryAuthority(userID string) *MemoryAuthority {
	return &MemoryAuthority{
		records:  make(map[string][]Notification),
		sessions: userID,
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Seed replaces the user's stored collection.
func (a *MemoryAuthority) Seed(userID string, records ...Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[userID] = append([]Notification(nil), records...)
}

// FailWith makes every subsequent call of the named operation return err.
// Passing a nil err clears the injection.
func (a *MemoryAuthority) FailWith(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		delete(a.failures, op)
		return
	}
	a.failures[op] = err
}

// Calls reports how many times the named operation was invoked.
func (a *MemoryAuthority) Calls(op string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.calls[op]
}

// Stored returns a copy of the user's stored collection.
func (a *MemoryAuthority) Stored(userID string) []Notification {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Notification(nil), a.records[userID]...)
}

func (a *MemoryAuthority) List(ctx context.Context, userID string) ([]Notification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[OpList]++
	if err := a.failures[OpList]; err != nil {
		return nil, err
	}
	return append([]Notification(nil), a.records[userID]...), nil
}

func (a *MemoryAuthority) MarkRead(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[OpMarkRead]++
	if err := a.failures[OpMarkRead]; err != nil {
		return err
	}

	records := a.records[a.sessions]
	for i := range records {
		if records[i].ID == id {
			if !records[i].Read {
				now := time.Now()
				records[i].Read = true
				records[i].ReadAt = &now
			}
			return nil
		}
	}
	return ErrNotFound
}

func (a *MemoryAuthority) MarkAllRead(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[OpMarkAllRead]++
	if err := a.failures[OpMarkAllRead]; err != nil {
		return err
	}

	now := time.Now()
	records := a.records[a.sessions]
	for i := range records {
		if !records[i].Read {
			records[i].Read = true
			at := now
			records[i].ReadAt = &at
		}
	}
	return nil
}

func (a *MemoryAuthority) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[OpDelete]++
	if err := a.failures[OpDelete]; err != nil {
		return err
	}

	records := a.records[a.sessions]
	for i := range records {
		if records[i].ID == id {
			a.records[a.sessions] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (a *MemoryAuthority) ClearAll(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls[OpClearAll]++
	if err := a.failures[OpClearAll]; err != nil {
		return err
	}

	a.records[a.sessions] = nil
	return nil
}
