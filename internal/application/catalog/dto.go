package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest represents a request to create a store
type CreateStoreRequest struct {
	Name    string
	Address string
	Phone   string
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStoreResponse converts a domain store
func ToStoreResponse(s *catalog.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string
	Description string
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// CreateProductRequest represents a request to create a product with its variants
type CreateProductRequest struct {
	CategoryID  uuid.UUID
	StoreID     uuid.UUID
	Name        string
	Description string
	Variants    []CreateVariantInput
}

// CreateVariantInput describes one variant of a new product
type CreateVariantInput struct {
	Name              string
	SKU               string
	Barcode           string
	SellingPrice      decimal.Decimal
	CostPrice         decimal.Decimal
	InitialStock      int64
	LowStockThreshold int64
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	StoreID     uuid.UUID         `json:"store_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Barcode           *string         `json:"barcode,omitempty"`
	QRToken           string          `json:"qr_token"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	StockQuantity     int64           `json:"stock_quantity"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
}

// ToVariantResponse converts a domain variant
func ToVariantResponse(v *catalog.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:                v.ID,
		ProductID:         v.ProductID,
		ProductName:       v.ProductName,
		Name:              v.Name,
		SKU:               v.SKU,
		Barcode:           v.Barcode,
		QRToken:           v.QRToken,
		SellingPrice:      v.SellingPrice,
		CostPrice:         v.CostPrice,
		StockQuantity:     v.StockQuantity,
		LowStockThreshold: v.LowStockThreshold,
		LowStock:          v.IsLowStock(v.StockQuantity),
	}
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = ToVariantResponse(v)
	}
	return ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Description: p.Description,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
	}
}
