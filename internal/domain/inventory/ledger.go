package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ErrInsufficientStock is returned when a delta would drive stock below zero
var ErrInsufficientStock = shared.NewCategorizedError(
	shared.CategoryInsufficientStock, "INSUFFICIENT_STOCK", "Insufficient stock available",
)

// StockLedger is the only path through which stock quantities change.
//
// ApplyDelta adds delta.Delta to the variant's stock in a single conditional
// write evaluated by the store, succeeding only when the result is not
// negative. On failure nothing is mutated and no movement is recorded. On
// success the movement row is written in the same unit of work.
type StockLedger interface {
	ApplyDelta(ctx context.Context, ownerID uuid.UUID, delta StockDelta) (*StockMovement, error)
}

// StockMovementRepository reads the ledger
type StockMovementRepository interface {
	FindByVariantForTenant(ctx context.Context, ownerID, variantID uuid.UUID, filter shared.Filter) ([]*StockMovement, int64, error)
}
