package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// CatalogService is the catalog use cases the handler needs
type CatalogService interface {
	CreateCategory(ctx context.Context, tc identity.TenantContext, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	CreateProduct(ctx context.Context, tc identity.TenantContext, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetVariant(ctx context.Context, tc identity.TenantContext, variantID uuid.UUID) (*catalogapp.VariantResponse, error)
}

// CreateCategoryBody is the body of POST /categories
type CreateCategoryBody struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CreateProductBody is the body of POST /products
type CreateProductBody struct {
	CategoryID  uuid.UUID           `json:"category_id" binding:"required"`
	StoreID     uuid.UUID           `json:"store_id" binding:"required"`
	Name        string              `json:"name" binding:"required,notblank,max=200"`
	Description string              `json:"description" binding:"max=1000"`
	Variants    []CreateVariantBody `json:"variants" binding:"required,min=1,max=100,dive"`
}

// CreateVariantBody is one variant of a new product
type CreateVariantBody struct {
	Name              string           `json:"name" binding:"required,notblank,max=100"`
	SKU               string           `json:"sku" binding:"required,notblank,max=64"`
	Barcode           string           `json:"barcode" binding:"max=64"`
	SellingPrice      *decimal.Decimal `json:"selling_price" binding:"required"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	InitialStock      int64            `json:"initial_stock" binding:"gte=0"`
	LowStockThreshold int64            `json:"low_stock_threshold" binding:"gte=0"`
}

// CatalogHandler handles category, product and variant endpoints
type CatalogHandler struct {
	BaseHandler
	catalog CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var body CreateCategoryBody
	if !h.BindJSON(c, &body) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), tc, catalogapp.CreateCategoryRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	var body CreateProductBody
	if !h.BindJSON(c, &body) {
		return
	}

	req := catalogapp.CreateProductRequest{
		CategoryID:  body.CategoryID,
		StoreID:     body.StoreID,
		Name:        body.Name,
		Description: body.Description,
		Variants:    make([]catalogapp.CreateVariantInput, len(body.Variants)),
	}
	for i, v := range body.Variants {
		req.Variants[i] = catalogapp.CreateVariantInput{
			Name:              v.Name,
			SKU:               v.SKU,
			Barcode:           v.Barcode,
			SellingPrice:      decimalOrZero(v.SellingPrice),
			CostPrice:         decimalOrZero(v.CostPrice),
			InitialStock:      v.InitialStock,
			LowStockThreshold: v.LowStockThreshold,
		}
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), tc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetVariant handles GET /variants/:id
func (h *CatalogHandler) GetVariant(c *gin.Context) {
	tc, ok := h.TenantContext(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c)
	if !ok {
		return
	}

	variant, err := h.catalog.GetVariant(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
