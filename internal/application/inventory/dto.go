package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
)

// AdjustStockRequest is a manual stock correction. Delta is signed.
type AdjustStockRequest struct {
	Delta  int64
	Reason string
}

// StockMovementResponse is the caller view of a ledger row
type StockMovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	VariantID     uuid.UUID  `json:"variant_id"`
	Delta         int64      `json:"delta"`
	BalanceBefore int64      `json:"balance_before"`
	BalanceAfter  int64      `json:"balance_after"`
	Reason        string     `json:"reason"`
	SourceType    string     `json:"source_type"`
	SourceID      *uuid.UUID `json:"source_id,omitempty"`
	ActorID       uuid.UUID  `json:"actor_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToStockMovementResponse converts a domain movement
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		VariantID:     m.VariantID,
		Delta:         m.Delta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		SourceType:    string(m.SourceType),
		SourceID:      m.SourceID,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// ToStockMovementResponses converts a slice of movements
func ToStockMovementResponses(ms []*inventory.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, len(ms))
	for i, m := range ms {
		out[i] = ToStockMovementResponse(m)
	}
	return out
}
