package models

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	OwnedModel
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
	Phone   string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *catalog.Store {
	return &catalog.Store{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		Address:     m.Address,
		Phone:       m.Phone,
	}
}

// StoreModelFromDomain creates a new persistence model from a domain Store entity.
func StoreModelFromDomain(s *catalog.Store) *StoreModel {
	m := &StoreModel{
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
	}
	m.FromDomainOwnedEntity(s.OwnedEntity)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	OwnedModel
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
	}
	m.FromDomainOwnedEntity(c.OwnedEntity)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	OwnedModel
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
// Variants are attached by the repository.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		OwnedEntity: m.ToOwnedEntity(),
		CategoryID:  m.CategoryID,
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		CategoryID:  p.CategoryID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Description: p.Description,
	}
	m.FromDomainOwnedEntity(p.OwnedEntity)
	return m
}

// ProductVariantModel is the persistence model for the ProductVariant domain entity.
// SKU and barcode are unique within a tenant, the QR token globally.
type ProductVariantModel struct {
	BaseModel
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_variants_owner_sku,priority:1;uniqueIndex:idx_variants_owner_barcode,priority:1"`
	Name              string          `gorm:"type:varchar(100);not null"`
	SKU               string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_variants_owner_sku,priority:2"`
	Barcode           *string         `gorm:"type:varchar(64);uniqueIndex:idx_variants_owner_barcode,priority:2"`
	QRToken           string          `gorm:"column:qr_token;type:varchar(64);not null;uniqueIndex"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	StockQuantity     int64           `gorm:"not null;check:chk_variants_stock_non_negative,stock_quantity >= 0"`
	LowStockThreshold int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant entity.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	return &catalog.ProductVariant{
		BaseEntity:        m.BaseModel.ToDomain(),
		ProductID:         m.ProductID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		SKU:               m.SKU,
		Barcode:           m.Barcode,
		QRToken:           m.QRToken,
		SellingPrice:      m.SellingPrice,
		CostPrice:         m.CostPrice,
		StockQuantity:     m.StockQuantity,
		LowStockThreshold: m.LowStockThreshold,
	}
}

// ProductVariantModelFromDomain creates a new persistence model from a domain ProductVariant entity.
func ProductVariantModelFromDomain(v *catalog.ProductVariant) *ProductVariantModel {
	m := &ProductVariantModel{
		ProductID:         v.ProductID,
		OwnerID:           v.OwnerID,
		Name:              v.Name,
		SKU:               v.SKU,
		Barcode:           v.Barcode,
		QRToken:           v.QRToken,
		SellingPrice:      v.SellingPrice,
		CostPrice:         v.CostPrice,
		StockQuantity:     v.StockQuantity,
		LowStockThreshold: v.LowStockThreshold,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// VariantWithProductRow is the result row of a variant joined to its product
type VariantWithProductRow struct {
	ProductVariantModel
	ProductName string
}

// ToDomain converts the row to a domain ProductVariant with its product name
func (r *VariantWithProductRow) ToDomain() *catalog.ProductVariant {
	v := r.ProductVariantModel.ToDomain()
	v.ProductName = r.ProductName
	return v
}
