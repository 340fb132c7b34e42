package event

import (
	"context"

	"github.com/retailpos/backend/internal/domain/shared"
)

// OutboxPublisher serializes domain events into outbox entries. Build it on
// a repository bound to the current database transaction so the entries
// commit atomically with the aggregate change.
type OutboxPublisher struct {
	serializer *EventSerializer
	repo       shared.OutboxRepository
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher. maxRetries <= 0 keeps
// the entry default.
func NewOutboxPublisher(serializer *EventSerializer, repo shared.OutboxRepository, maxRetries int) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
		repo:       repo,
		maxRetries: maxRetries,
	}
}

// SaveEvents implements the shared.OutboxEventSaver interface
func (p *OutboxPublisher) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return p.repo.Save(ctx, entries...)
}

// Ensure OutboxPublisher implements OutboxEventSaver
var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
