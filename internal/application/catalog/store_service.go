package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StoreService handles store lifecycle for a tenant
type StoreService struct {
	gate         *identity.Gate
	stores       catalog.StoreRepository
	users        identity.UserRepository
	products     catalog.ProductRepository
	transactions sales.TransactionRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(
	gate *identity.Gate,
	stores catalog.StoreRepository,
	users identity.UserRepository,
	products catalog.ProductRepository,
	transactions sales.TransactionRepository,
) *StoreService {
	return &StoreService{
		gate:         gate,
		stores:       stores,
		users:        users,
		products:     products,
		transactions: transactions,
	}
}

// Create creates a store owned by the caller's tenant
func (s *StoreService) Create(ctx context.Context, tc identity.TenantContext, req CreateStoreRequest) (*StoreResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpStoreCreate); err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(tc.TenantID(), req.Name, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetByID returns one of the tenant's stores
func (s *StoreService) GetByID(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*StoreResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpStoreRead); err != nil {
		return nil, err
	}
	store, err := s.find(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// List returns a page of the tenant's stores
func (s *StoreService) List(ctx context.Context, tc identity.TenantContext, filter shared.Filter) (shared.Paginated[StoreResponse], error) {
	if err := s.gate.Authorize(tc, identity.OpStoreRead); err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	filter = filter.Normalize()
	stores, total, err := s.stores.FindAllForTenant(ctx, tc.TenantID(), filter)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	items := make([]StoreResponse, len(stores))
	for i, store := range stores {
		items[i] = ToStoreResponse(store)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Delete removes a store nothing references any more
func (s *StoreService) Delete(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	if err := s.gate.Authorize(tc, identity.OpStoreDelete); err != nil {
		return err
	}
	if _, err := s.find(ctx, tc, id); err != nil {
		return err
	}

	usage, err := s.usage(ctx, tc.TenantID(), id)
	if err != nil {
		return err
	}
	if !usage.CanDelete() {
		return catalog.ErrStoreInUse
	}
	return s.stores.DeleteForTenant(ctx, tc.TenantID(), id)
}

func (s *StoreService) find(ctx context.Context, tc identity.TenantContext, id uuid.UUID) (*catalog.Store, error) {
	store, err := s.stores.FindByIDForTenant(ctx, tc.TenantID(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Store")
		}
		return nil, err
	}
	return store, nil
}

func (s *StoreService) usage(ctx context.Context, ownerID, storeID uuid.UUID) (catalog.StoreUsage, error) {
	var (
		usage catalog.StoreUsage
		err   error
	)
	if usage.Employees, err = s.users.CountByStore(ctx, ownerID, storeID); err != nil {
		return usage, err
	}
	if usage.Products, err = s.products.CountByStore(ctx, ownerID, storeID); err != nil {
		return usage, err
	}
	if usage.Transactions, err = s.transactions.CountByStore(ctx, ownerID, storeID); err != nil {
		return usage, err
	}
	return usage, nil
}
