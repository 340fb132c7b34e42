package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that keeps every event it receives.
// Tests subscribe it to a bus and then wait on it.
type EventRecorder struct {
	types []string
	fail  error

	mu     sync.Mutex
	events []shared.DomainEvent
	notify chan struct{}
}

// NewEventRecorder records events of the given types
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{
		types:  eventTypes,
		notify: make(chan struct{}, 1),
	}
}

// FailWith makes Handle record the event and then return err, so the
// outbox sees a delivery failure.
func (r *EventRecorder) FailWith(err error) *EventRecorder {
	r.fail = err
	return r
}

func (r *EventRecorder) EventTypes() []string {
	return r.types
}

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return r.fail
}

// Events returns a copy of what has been recorded so far
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ForOwner returns the recorded events of one tenant
func (r *EventRecorder) ForOwner(ownerID uuid.UUID) []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, e := range r.Events() {
		if e.OwnerID() == ownerID {
			out = append(out, e)
		}
	}
	return out
}

// Await blocks until at least n events have been recorded or timeout
// elapses. It reports whether the count was reached.
func (r *EventRecorder) Await(t *testing.T, n int, timeout time.Duration) bool {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if len(r.Events()) >= n {
			return true
		}
		select {
		case <-r.notify:
		case <-deadline.C:
			return len(r.Events()) >= n
		}
	}
}

// TestEvent is a bare domain event for bus and outbox tests
type TestEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

// NewTestEvent creates a test event owned by ownerID
func NewTestEvent(eventType string, ownerID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), ownerID),
		Data:            "test-data",
	}
}

// Eventually polls condition every interval until it holds or timeout
// elapses.
func Eventually(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for {
		if condition() {
			return true
		}
		select {
		case <-ticker.C:
		case <-deadline:
			return condition()
		}
	}
}
