package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ErrStoreInUse is returned when deleting a store that still has employees,
// products or transactions.
var ErrStoreInUse = shared.NewDomainError("STORE_IN_USE", "Store still has employees, products or transactions")

// Store is a physical point of sale owned by a tenant
type Store struct {
	shared.OwnedEntity
	Name    string
	Address string
	Phone   string
}

// NewStore creates a store for the tenant ownerID
func NewStore(ownerID uuid.UUID, name, address, phone string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store must belong to a tenant")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 100 characters")
	}
	if len(phone) > 30 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	return &Store{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Name:        name,
		Address:     strings.TrimSpace(address),
		Phone:       strings.TrimSpace(phone),
	}, nil
}

// StoreUsage counts the rows that reference a store
type StoreUsage struct {
	Employees    int64
	Products     int64
	Transactions int64
}

// CanDelete reports whether nothing references the store any more
func (u StoreUsage) CanDelete() bool {
	return u.Employees == 0 && u.Products == 0 && u.Transactions == 0
}
