package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductService handles categories, products and variants
type ProductService struct {
	gate       *identity.Gate
	stores     catalog.StoreRepository
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	gate *identity.Gate,
	stores catalog.StoreRepository,
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
) *ProductService {
	return &ProductService{
		gate:       gate,
		stores:     stores,
		categories: categories,
		products:   products,
	}
}

// CreateCategory creates a category in the caller's tenant
func (s *ProductService) CreateCategory(ctx context.Context, tc identity.TenantContext, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpCatalogWrite); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(tc.TenantID(), req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// CreateProduct creates a product with at least one variant. Category and
// store must belong to the caller's tenant.
func (s *ProductService) CreateProduct(ctx context.Context, tc identity.TenantContext, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpCatalogWrite); err != nil {
		return nil, err
	}
	if len(req.Variants) == 0 {
		return nil, shared.NewDomainError("VARIANTS_REQUIRED", "At least one variant is required")
	}

	tenantID := tc.TenantID()
	if _, err := s.categories.FindByIDForTenant(ctx, tenantID, req.CategoryID); err != nil {
		return nil, notFoundAs(err, "Category")
	}
	if _, err := s.stores.FindByIDForTenant(ctx, tenantID, req.StoreID); err != nil {
		return nil, notFoundAs(err, "Store")
	}

	product, err := catalog.NewProduct(tenantID, req.CategoryID, req.StoreID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	for _, v := range req.Variants {
		if _, err := product.AddVariant(catalog.VariantSpec{
			Name:              v.Name,
			SKU:               v.SKU,
			Barcode:           v.Barcode,
			SellingPrice:      v.SellingPrice,
			CostPrice:         v.CostPrice,
			InitialStock:      v.InitialStock,
			LowStockThreshold: v.LowStockThreshold,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetVariant returns one of the tenant's variants with its current stock
func (s *ProductService) GetVariant(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID) (*VariantResponse, error) {
	if err := s.gate.Authorize(tc, identity.OpCatalogRead); err != nil {
		return nil, err
	}
	variant, err := s.products.FindVariantForTenant(ctx, tc.TenantID(), variantID)
	if err != nil {
		return nil, notFoundAs(err, "Product variant")
	}
	resp := ToVariantResponse(variant)
	return &resp, nil
}

func notFoundAs(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}
