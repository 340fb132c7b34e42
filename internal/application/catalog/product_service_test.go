package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceHarness struct {
	stores     *MockStoreRepository
	categories *MockCategoryRepository
	products   *MockProductRepository
	service    *ProductService
}

func newProductServiceHarness() *productServiceHarness {
	h := &productServiceHarness{
		stores:     new(MockStoreRepository),
		categories: new(MockCategoryRepository),
		products:   new(MockProductRepository),
	}
	h.service = NewProductService(identity.NewDefaultGate(), h.stores, h.categories, h.products)
	return h
}

func TestProductService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	h := newProductServiceHarness()
	tc := tenantContext(t, identity.RoleManager)
	h.categories.On("Create", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	resp, err := h.service.CreateCategory(ctx, tc, CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", resp.Name)

	_, err = h.service.CreateCategory(ctx, tenantContext(t, identity.RoleCashier), CreateCategoryRequest{Name: "Drinks"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	request := func(categoryID, storeID uuid.UUID) CreateProductRequest {
		return CreateProductRequest{
			CategoryID: categoryID,
			StoreID:    storeID,
			Name:       "Cola",
			Variants: []CreateVariantInput{
				{Name: "330ml", SKU: "cola-330", SellingPrice: decimal.RequireFromString("1.5"), InitialStock: 24, LowStockThreshold: 5},
				{Name: "1l", SKU: "cola-1l", Barcode: "5000112", SellingPrice: decimal.RequireFromString("2.99")},
			},
		}
	}

	t.Run("creates product with variants", func(t *testing.T) {
		h := newProductServiceHarness()
		tc := tenantContext(t, identity.RoleOwner)
		categoryID, storeID := uuid.New(), uuid.New()

		h.categories.On("FindByIDForTenant", ctx, tc.TenantID(), categoryID).Return(&catalog.Category{}, nil)
		h.stores.On("FindByIDForTenant", ctx, tc.TenantID(), storeID).Return(&catalog.Store{}, nil)
		h.products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return len(p.Variants) == 2 && p.Variants[0].OwnerID == tc.TenantID()
		})).Return(nil)

		resp, err := h.service.CreateProduct(ctx, tc, request(categoryID, storeID))
		require.NoError(t, err)
		require.Len(t, resp.Variants, 2)
		assert.Equal(t, "COLA-330", resp.Variants[0].SKU)
		assert.Equal(t, int64(24), resp.Variants[0].StockQuantity)
		assert.Equal(t, "1.50", resp.Variants[0].SellingPrice.StringFixed(2))
		assert.NotEmpty(t, resp.Variants[1].QRToken)
		h.products.AssertExpectations(t)
	})

	t.Run("category of another tenant is not found", func(t *testing.T) {
		h := newProductServiceHarness()
		tc := tenantContext(t, identity.RoleOwner)
		categoryID, storeID := uuid.New(), uuid.New()
		h.categories.On("FindByIDForTenant", ctx, tc.TenantID(), categoryID).Return(nil, shared.ErrNotFound)

		_, err := h.service.CreateProduct(ctx, tc, request(categoryID, storeID))
		assert.ErrorIs(t, err, shared.ErrNotFound)
		h.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store of another tenant is not found", func(t *testing.T) {
		h := newProductServiceHarness()
		tc := tenantContext(t, identity.RoleOwner)
		categoryID, storeID := uuid.New(), uuid.New()
		h.categories.On("FindByIDForTenant", ctx, tc.TenantID(), categoryID).Return(&catalog.Category{}, nil)
		h.stores.On("FindByIDForTenant", ctx, tc.TenantID(), storeID).Return(nil, shared.ErrNotFound)

		_, err := h.service.CreateProduct(ctx, tc, request(categoryID, storeID))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate sku within product", func(t *testing.T) {
		h := newProductServiceHarness()
		tc := tenantContext(t, identity.RoleOwner)
		categoryID, storeID := uuid.New(), uuid.New()
		h.categories.On("FindByIDForTenant", ctx, tc.TenantID(), categoryID).Return(&catalog.Category{}, nil)
		h.stores.On("FindByIDForTenant", ctx, tc.TenantID(), storeID).Return(&catalog.Store{}, nil)

		req := request(categoryID, storeID)
		req.Variants[1].SKU = "COLA-330"
		_, err := h.service.CreateProduct(ctx, tc, req)
		assert.ErrorIs(t, err, shared.ErrDuplicateIdentifier)
	})

	t.Run("variants are required", func(t *testing.T) {
		h := newProductServiceHarness()
		_, err := h.service.CreateProduct(ctx, tenantContext(t, identity.RoleOwner), CreateProductRequest{Name: "Cola"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestProductService_GetVariant(t *testing.T) {
	ctx := context.Background()
	h := newProductServiceHarness()
	tc := tenantContext(t, identity.RoleCashier)
	variant := &catalog.ProductVariant{SKU: "COLA", StockQuantity: 2, LowStockThreshold: 2}
	variant.ID = uuid.New()

	h.products.On("FindVariantForTenant", ctx, tc.TenantID(), variant.ID).Return(variant, nil)
	h.products.On("FindVariantForTenant", ctx, tc.TenantID(), mock.Anything).Return(nil, shared.ErrNotFound)

	resp, err := h.service.GetVariant(ctx, tc, variant.ID)
	require.NoError(t, err)
	assert.True(t, resp.LowStock)

	_, err = h.service.GetVariant(ctx, tc, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
