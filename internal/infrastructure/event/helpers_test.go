package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
)

// recordingHandler records the events it receives and optionally fails
type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func stockLowEvent(ownerID uuid.UUID) *inventory.StockLowEvent {
	m := inventory.NewStockMovement(ownerID, inventory.StockDelta{
		VariantID:  uuid.New(),
		Delta:      -3,
		Reason:     "SALE TXN-1",
		SourceType: inventory.SourceSale,
		ActorID:    ownerID,
	}, 1)
	return inventory.NewStockLowEvent(m, "COLA-330", 2)
}

// memoryOutboxStore is an in-memory OutboxStore
type memoryOutboxStore struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]*shared.OutboxEntry
	updates   int
	claimErr  error
	updateErr error
}

func newMemoryOutboxStore() *memoryOutboxStore {
	return &memoryOutboxStore{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (s *memoryOutboxStore) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		copied := *e
		s.entries[e.ID] = &copied
	}
	return nil
}

func (s *memoryOutboxStore) ClaimBatch(_ context.Context, now time.Time, limit int) ([]*shared.OutboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimErr != nil {
		return nil, s.claimErr
	}
	var claimed []*shared.OutboxEntry
	for _, e := range s.entries {
		if len(claimed) == limit {
			break
		}
		due := e.Status == shared.OutboxStatusPending ||
			(e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(now))
		if !due {
			continue
		}
		e.Status = shared.OutboxStatusProcessing
		copied := *e
		claimed = append(claimed, &copied)
	}
	return claimed, nil
}

func (s *memoryOutboxStore) Update(_ context.Context, entry *shared.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	copied := *entry
	s.entries[entry.ID] = &copied
	s.updates++
	return nil
}

func (s *memoryOutboxStore) DeleteSentBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

func (s *memoryOutboxStore) get(id uuid.UUID) shared.OutboxEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.entries[id]
}

var errHandler = errors.New("handler failed")
