package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrDuplicateTransactionNumber is returned by Create when the number is taken
var ErrDuplicateTransactionNumber = shared.NewCategorizedError(
	shared.CategoryDuplicateIdentifier, "DUPLICATE_TRANSACTION_NUMBER", "Transaction number already exists",
)

// TransactionFilter narrows tenant transaction listings
type TransactionFilter struct {
	shared.Filter
	StoreID   *uuid.UUID
	CashierID *uuid.UUID
	Type      *Type
	From      *time.Time
	To        *time.Time
}

// TypeStats aggregates transactions of one type
type TypeStats struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
	Items int64           `json:"items"`
}

// Stats summarises a tenant's transactions over a range
type Stats struct {
	ByType   map[Type]TypeStats `json:"by_type"`
	Count    int64              `json:"count"`
	NetSales decimal.Decimal    `json:"net_sales"`
}

// NewStats derives totals from per-type aggregates. Net sales are sales
// minus returns and refunds.
func NewStats(byType map[Type]TypeStats) *Stats {
	s := &Stats{ByType: byType, NetSales: decimal.Zero}
	if s.ByType == nil {
		s.ByType = map[Type]TypeStats{}
	}
	for typ, ts := range s.ByType {
		s.Count += ts.Count
		if typ == TypeSale {
			s.NetSales = s.NetSales.Add(ts.Total)
		} else {
			s.NetSales = s.NetSales.Sub(ts.Total)
		}
	}
	s.NetSales = s.NetSales.Round(2)
	return s
}

// TransactionRepository defines transaction persistence
type TransactionRepository interface {
	// Create inserts the transaction row and all item rows. A taken
	// transaction number is a DuplicateIdentifier error.
	Create(ctx context.Context, txn *Transaction) error

	// FindByIDForTenant loads a transaction with its items
	FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)

	// ExistsForTenant reports whether the tenant owns a transaction with id
	ExistsForTenant(ctx context.Context, ownerID, id uuid.UUID) (bool, error)

	// FindAllForTenant lists transactions without items, newest first
	FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]*Transaction, int64, error)

	// StatsForTenant aggregates transactions matching the filter
	StatsForTenant(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) (*Stats, error)

	// CountByStore counts transactions recorded at a store
	CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error)
}
