package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SourceType identifies what caused a stock movement
type SourceType string

const (
	SourceInitial    SourceType = "INITIAL"
	SourceSale       SourceType = "SALE"
	SourceReturn     SourceType = "RETURN"
	SourceRefund     SourceType = "REFUND"
	SourceAdjustment SourceType = "ADJUSTMENT"
)

// IsValid returns true if the source type is known
func (s SourceType) IsValid() bool {
	switch s {
	case SourceInitial, SourceSale, SourceReturn, SourceRefund, SourceAdjustment:
		return true
	}
	return false
}

// MaxReasonLength bounds the free-text reason of a movement
const MaxReasonLength = 255

// MaxAdjustment bounds the magnitude of a single stock delta
const MaxAdjustment int64 = 1_000_000

// StockDelta is a signed change requested against one variant
type StockDelta struct {
	VariantID  uuid.UUID
	Delta      int64
	Reason     string
	SourceType SourceType
	SourceID   *uuid.UUID
	ActorID    uuid.UUID
}

// Validate checks the request shape before it reaches storage
func (d StockDelta) Validate() error {
	if d.VariantID == uuid.Nil {
		return shared.NewDomainError("INVALID_VARIANT", "Variant is required")
	}
	if d.Delta == 0 {
		return shared.NewDomainError("INVALID_DELTA", "Stock delta cannot be zero")
	}
	if d.Delta > MaxAdjustment || d.Delta < -MaxAdjustment {
		return shared.NewDomainError("INVALID_DELTA", "Stock delta cannot exceed 1000000 units")
	}
	reason := strings.TrimSpace(d.Reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A reason is required for every stock change")
	}
	if len(reason) > MaxReasonLength {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 255 characters")
	}
	if !d.SourceType.IsValid() {
		return shared.NewDomainError("INVALID_SOURCE_TYPE", "Unknown stock movement source")
	}
	return nil
}

// StockMovement is the append-only ledger row recorded for every applied delta
type StockMovement struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	VariantID     uuid.UUID
	Delta         int64
	BalanceBefore int64
	BalanceAfter  int64
	Reason        string
	SourceType    SourceType
	SourceID      *uuid.UUID
	ActorID       uuid.UUID
	CreatedAt     time.Time
}

// NewStockMovement records delta applied to a variant whose stock is now balanceAfter
func NewStockMovement(ownerID uuid.UUID, delta StockDelta, balanceAfter int64) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		VariantID:     delta.VariantID,
		Delta:         delta.Delta,
		BalanceBefore: balanceAfter - delta.Delta,
		BalanceAfter:  balanceAfter,
		Reason:        strings.TrimSpace(delta.Reason),
		SourceType:    delta.SourceType,
		SourceID:      delta.SourceID,
		ActorID:       delta.ActorID,
		CreatedAt:     time.Now(),
	}
}

// CrossedBelow reports whether the movement took stock from above threshold
// to at or below it.
func (m *StockMovement) CrossedBelow(threshold int64) bool {
	if threshold <= 0 {
		return false
	}
	return m.BalanceBefore > threshold && m.BalanceAfter <= threshold
}
