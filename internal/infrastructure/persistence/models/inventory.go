package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/inventory"
)

// StockMovementModel is one append-only row of the stock ledger
type StockMovementModel struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_movements_owner_variant,priority:1"`
	VariantID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_movements_owner_variant,priority:2"`
	Delta         int64                `gorm:"not null"`
	BalanceBefore int64                `gorm:"not null"`
	BalanceAfter  int64                `gorm:"not null"`
	Reason        string               `gorm:"type:varchar(255);not null"`
	SourceType    inventory.SourceType `gorm:"type:varchar(20);not null"`
	SourceID      *uuid.UUID           `gorm:"type:uuid;index"`
	ActorID       uuid.UUID            `gorm:"type:uuid;not null"`
	CreatedAt     time.Time            `gorm:"not null;index:idx_movements_owner_variant,priority:3"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		VariantID:     m.VariantID,
		Delta:         m.Delta,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		VariantID:     s.VariantID,
		Delta:         s.Delta,
		BalanceBefore: s.BalanceBefore,
		BalanceAfter:  s.BalanceAfter,
		Reason:        s.Reason,
		SourceType:    s.SourceType,
		SourceID:      s.SourceID,
		ActorID:       s.ActorID,
		CreatedAt:     s.CreatedAt,
	}
}
