package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Every lookup takes the tenant explicitly. A row owned by another tenant is
// reported as shared.ErrNotFound, exactly like a missing row.

// StoreRepository defines store persistence
type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*Store, error)
	FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*Store, int64, error)
	DeleteForTenant(ctx context.Context, ownerID, id uuid.UUID) error
}

// CategoryRepository defines category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*Category, error)
}

// ProductRepository defines product and variant persistence
type ProductRepository interface {
	// Create inserts the product and its variants in one transaction.
	// A SKU or barcode taken within the tenant is a DuplicateIdentifier error.
	Create(ctx context.Context, product *Product) error

	// FindVariantForTenant loads one variant with its product name
	FindVariantForTenant(ctx context.Context, ownerID, variantID uuid.UUID) (*ProductVariant, error)

	// FindVariantsForTenant loads the tenant's variants among ids in one
	// query. Ids that are missing or belong to another tenant are absent
	// from the result.
	FindVariantsForTenant(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*ProductVariant, error)

	// CountByStore counts products attached to a store
	CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error)
}
