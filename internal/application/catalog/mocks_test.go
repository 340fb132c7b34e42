package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStoreRepository is a mock implementation of catalog.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *catalog.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Store, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*catalog.Store, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*catalog.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) DeleteForTenant(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindVariantForTenant(ctx context.Context, ownerID, variantID uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, ownerID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductRepository) FindVariantsForTenant(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).([]*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductRepository) CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindCashierForTenant(ctx context.Context, ownerID, userID uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, ownerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindEmployeesForTenant(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, storeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of sales.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *sales.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) FindByIDForTenant(ctx context.Context, ownerID, id uuid.UUID) (*sales.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ExistsForTenant(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForTenant(ctx context.Context, ownerID uuid.UUID, filter sales.TransactionFilter) ([]*sales.Transaction, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*sales.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) StatsForTenant(ctx context.Context, ownerID uuid.UUID, filter sales.TransactionFilter) (*sales.Stats, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Stats), args.Error(1)
}

func (m *MockTransactionRepository) CountByStore(ctx context.Context, ownerID, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func tenantContext(t *testing.T, role identity.Role) identity.TenantContext {
	ownerID := uuid.New()
	userID := ownerID
	if role != identity.RoleOwner {
		userID = uuid.New()
	}
	tc, err := identity.NewTenantContext(userID, "user@example.com", role, ownerID)
	require.NoError(t, err)
	return tc
}
