package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// UserRepository defines user persistence
type UserRepository interface {
	// Create inserts a new user. A taken email is a DuplicateIdentifier error.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user regardless of tenant. Only credential issuance
	// uses it; request handling goes through the tenant-scoped lookups.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email regardless of tenant
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindCashierForTenant finds a user allowed to ring up sales for the
	// tenant: an employee of the tenant or the owner personally.
	FindCashierForTenant(ctx context.Context, ownerID, userID uuid.UUID) (*User, error)

	// FindEmployeesForTenant lists the tenant's employees
	FindEmployeesForTenant(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*User, int64, error)

	// CountByStore counts employees assigned to a store
	CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error)
}
