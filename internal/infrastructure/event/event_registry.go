package event

import (
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// RegisterAllEvents registers every domain event type the outbox can carry.
// The OutboxProcessor cannot deserialize an entry whose type is missing here.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(sales.EventTypeTransactionCommitted, func() shared.DomainEvent {
		return &sales.TransactionCommittedEvent{}
	})
	serializer.Register(inventory.EventTypeStockAdjusted, func() shared.DomainEvent {
		return &inventory.StockAdjustedEvent{}
	})
	serializer.Register(inventory.EventTypeStockLow, func() shared.DomainEvent {
		return &inventory.StockLowEvent{}
	})
}
