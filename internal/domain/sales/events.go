package sales

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// AggregateTypeTransaction is the aggregate type for transaction events
const AggregateTypeTransaction = "Transaction"

// EventTypeTransactionCommitted is raised once per committed transaction
const EventTypeTransactionCommitted = "TransactionCommitted"

// TransactionCommittedEvent is written to the outbox in the commit's unit of work
type TransactionCommittedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionNumber string    `json:"transaction_number"`
	Type              Type      `json:"transaction_type"`
	StoreID           uuid.UUID `json:"store_id"`
	CashierID         uuid.UUID `json:"cashier_id"`
	Total             string    `json:"total"`
	ItemCount         int64     `json:"item_count"`
}

// NewTransactionCommittedEvent creates the event for t
func NewTransactionCommittedEvent(t *Transaction) *TransactionCommittedEvent {
	return &TransactionCommittedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCommitted, AggregateTypeTransaction, t.ID, t.OwnerID),
		TransactionID:     t.ID,
		TransactionNumber: t.TransactionNumber,
		Type:              t.Type,
		StoreID:           t.StoreID,
		CashierID:         t.CashierID,
		Total:             t.Total.StringFixed(2),
		ItemCount:         t.ItemCount(),
	}
}
