package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// References are the ids a transaction request points at
type References struct {
	StoreID                uuid.UUID
	CashierID              uuid.UUID
	VariantIDs             []uuid.UUID
	ReferenceTransactionID *uuid.UUID
}

// ResolvedReferences holds the tenant-owned records behind References
type ResolvedReferences struct {
	Store    *catalog.Store
	Cashier  *identity.User
	Variants map[uuid.UUID]*catalog.ProductVariant
}

// ReferentialValidator proves that everything a request references belongs to
// the caller's tenant. Every failure is shared.ErrNotFound: a record owned by
// another tenant is indistinguishable from one that does not exist.
type ReferentialValidator struct {
	stores       catalog.StoreRepository
	users        identity.UserRepository
	products     catalog.ProductRepository
	transactions sales.TransactionRepository
}

// NewReferentialValidator creates a ReferentialValidator
func NewReferentialValidator(
	stores catalog.StoreRepository,
	users identity.UserRepository,
	products catalog.ProductRepository,
	transactions sales.TransactionRepository,
) *ReferentialValidator {
	return &ReferentialValidator{
		stores:       stores,
		users:        users,
		products:     products,
		transactions: transactions,
	}
}

// Validate resolves refs within tc's tenant
func (v *ReferentialValidator) Validate(ctx context.Context, tc identity.TenantContext, refs References) (*ResolvedReferences, error) {
	tenantID := tc.TenantID()

	store, err := v.stores.FindByIDForTenant(ctx, tenantID, refs.StoreID)
	if err != nil {
		return nil, notFoundOr(err, "Store")
	}
	if !store.BelongsTo(tenantID) {
		return nil, shared.NewNotFoundError("Store")
	}

	cashier, err := v.users.FindCashierForTenant(ctx, tenantID, refs.CashierID)
	if err != nil {
		return nil, notFoundOr(err, "Cashier")
	}
	if !cashier.CanActAsCashierFor(tenantID) {
		return nil, shared.NewNotFoundError("Cashier")
	}

	variants, err := v.resolveVariants(ctx, tenantID, refs.VariantIDs)
	if err != nil {
		return nil, err
	}

	if refs.ReferenceTransactionID != nil {
		exists, err := v.transactions.ExistsForTenant(ctx, tenantID, *refs.ReferenceTransactionID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewNotFoundError("Reference transaction")
		}
	}

	return &ResolvedReferences{Store: store, Cashier: cashier, Variants: variants}, nil
}

func (v *ReferentialValidator) resolveVariants(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.ProductVariant, error) {
	distinct := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	found, err := v.products.FindVariantsForTenant(ctx, tenantID, distinct)
	if err != nil {
		return nil, notFoundOr(err, "Product variant")
	}

	byID := make(map[uuid.UUID]*catalog.ProductVariant, len(found))
	for _, variant := range found {
		if !variant.BelongsTo(tenantID) {
			continue
		}
		byID[variant.ID] = variant
	}
	for _, id := range distinct {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewNotFoundError("Product variant")
		}
	}
	return byID, nil
}

// notFoundOr names the missing resource and passes every other error through
func notFoundOr(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
