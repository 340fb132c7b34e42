package inventory

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// AggregateTypeVariant is the aggregate type of stock events
const AggregateTypeVariant = "ProductVariant"

const (
	EventTypeStockAdjusted = "StockAdjusted"
	EventTypeStockLow      = "StockLow"
)

// StockAdjustedEvent is raised when an owner or manager corrects stock by hand
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	VariantID    uuid.UUID `json:"variant_id"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balance_after"`
	Reason       string    `json:"reason"`
	ActorID      uuid.UUID `json:"actor_id"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent from a movement
func NewStockAdjustedEvent(m *StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeVariant, m.VariantID, m.OwnerID),
		VariantID:       m.VariantID,
		Delta:           m.Delta,
		BalanceAfter:    m.BalanceAfter,
		Reason:          m.Reason,
		ActorID:         m.ActorID,
	}
}

// StockLowEvent is raised when a movement leaves a variant at or below its
// low-stock threshold
type StockLowEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	Stock     int64     `json:"stock"`
	Threshold int64     `json:"threshold"`
}

// NewStockLowEvent creates a StockLowEvent
func NewStockLowEvent(m *StockMovement, sku string, threshold int64) *StockLowEvent {
	return &StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLow, AggregateTypeVariant, m.VariantID, m.OwnerID),
		VariantID:       m.VariantID,
		SKU:             sku,
		Stock:           m.BalanceAfter,
		Threshold:       threshold,
	}
}
