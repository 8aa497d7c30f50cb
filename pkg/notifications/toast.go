package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradeguard/dashkit/pkg/broadcast"
)

// Severity classifies a toast for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultToastDuration is how long a toast stays up unless overridden.
const DefaultToastDuration = 5 * time.Second

// Toast is a transient feedback message shown outside the notification
// collection. A zero Duration means the toast stays until dismissed.
type Toast struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"severity"`
	Title     string        `json:"title"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// ToastEventType distinguishes appearance from removal on the event stream.
type ToastEventType string

const (
	ToastShown     ToastEventType = "shown"
	ToastDismissed ToastEventType = "dismissed"
)

// ToastEvent is broadcast whenever a toast appears or is removed, whether by
// timer expiry or explicit dismissal.
type ToastEvent struct {
	Type  ToastEventType `json:"type"`
	Toast Toast          `json:"toast"`
}

// ToastQueue holds the active toasts in display order. Expiry is scheduled
// per toast with a timer rather than polled.
type ToastQueue struct {
	mu       sync.Mutex
	active   []Toast
	timers   map[string]*time.Timer
	closed   bool
	duration time.Duration
	events   broadcast.Broadcaster[ToastEvent]
}

// ToastQueueOption configures a ToastQueue.
type ToastQueueOption func(*ToastQueue)

// WithToastDuration sets the default display duration.
func WithToastDuration(d time.Duration) ToastQueueOption {
	return func(q *ToastQueue) {
		if d > 0 {
			q.duration = d
		}
	}
}

// WithToastBroadcaster replaces the default in-memory event broadcaster.
func WithToastBroadcaster(b broadcast.Broadcaster[ToastEvent]) ToastQueueOption {
	return func(q *ToastQueue) {
		if b != nil {
			q.events = b
		}
	}
}

// NewToastQueue creates an empty queue.
func NewToastQueue(opts ...ToastQueueOption) *ToastQueue {
	q := &ToastQueue{
		timers:   make(map[string]*time.Timer),
		duration: DefaultToastDuration,
		events:   broadcast.NewMemoryBroadcaster[ToastEvent](16),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ToastOption customizes a single toast.
type ToastOption func(*Toast)

// WithDuration overrides the queue's default duration for one toast.
// A zero duration makes the toast stick until dismissed.
func WithDuration(d time.Duration) ToastOption {
	return func(t *Toast) {
		t.Duration = d
	}
}

// Push queues a toast and schedules its expiry.
func (q *ToastQueue) Push(severity Severity, title, message string, opts ...ToastOption) (Toast, error) {
	toast := Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Title:     title,
		Message:   message,
		Duration:  q.duration,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&toast)
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return Toast{}, ErrQueueClosed
	}
	q.active = append(q.active, toast)
	if toast.Duration > 0 {
		id := toast.ID
		q.timers[id] = time.AfterFunc(toast.Duration, func() {
			q.Dismiss(id)
		})
	}
	q.mu.Unlock()

	q.publish(ToastShown, toast)
	return toast, nil
}

// Success queues a success toast.
func (q *ToastQueue) Success(title, message string, opts ...ToastOption) (Toast, error) {
	return q.Push(SeveritySuccess, title, message, opts...)
}

// Error queues an error toast.
func (q *ToastQueue) Error(title, message string, opts ...ToastOption) (Toast, error) {
	return q.Push(SeverityError, title, message, opts...)
}

// Info queues an informational toast.
func (q *ToastQueue) Info(title, message string, opts ...ToastOption) (Toast, error) {
	return q.Push(SeverityInfo, title, message, opts...)
}

// Warning queues a warning toast.
func (q *ToastQueue) Warning(title, message string, opts ...ToastOption) (Toast, error) {
	return q.Push(SeverityWarning, title, message, opts...)
}

// Dismiss removes a toast before its timer fires. Dismissing an expired or
// unknown toast is a no-op and reports false.
func (q *ToastQueue) Dismiss(id string) bool {
	q.mu.Lock()
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	idx := -1
	for i := range q.active {
		if q.active[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	toast := q.active[idx]
	q.active = append(q.active[:idx:idx], q.active[idx+1:]...)
	q.mu.Unlock()

	q.publish(ToastDismissed, toast)
	return true
}

// Active returns the toasts currently on display, oldest first.
func (q *ToastQueue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.active...)
}

// Subscribe returns a subscriber of toast events.
func (q *ToastQueue) Subscribe(ctx context.Context) broadcast.Subscriber[ToastEvent] {
	return q.events.Subscribe(ctx)
}

// Close stops all timers and the event broadcaster. The queue rejects pushes
// afterwards.
func (q *ToastQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.active = nil
	q.mu.Unlock()

	return q.events.Close()
}

func (q *ToastQueue) publish(typ ToastEventType, toast Toast) {
	_ = q.events.Broadcast(context.Background(), broadcast.Message[ToastEvent]{
		Data: ToastEvent{Type: typ, Toast: toast},
	})
}
